package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/match-storyteller/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrFileNotFound is wrapped by loaders when the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

func readInput(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s %w at %s", kind, ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, path, err)
	}
	return data, nil
}

// LoadWeights reads and validates a weight table. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func LoadWeights(path string) (*types.WeightTable, error) {
	data, err := readInput("weights file", path)
	if err != nil {
		return nil, err
	}

	var weights types.WeightTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &weights); err != nil {
			return nil, fmt.Errorf("could not decode YAML from %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &weights); err != nil {
			return nil, fmt.Errorf("could not decode JSON from %s: %w", path, err)
		}
	}

	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &weights, nil
}

// LoadMatchFeed reads a match commentary feed.
func LoadMatchFeed(path string) (*types.MatchFeed, error) {
	data, err := readInput("match event file", path)
	if err != nil {
		return nil, err
	}

	var feed types.MatchFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("could not decode JSON from %s: %w", path, err)
	}
	return &feed, nil
}
