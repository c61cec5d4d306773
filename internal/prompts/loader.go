// Package prompts holds the caption collaborator's LLM prompts.
// They live in captions.json, embedded at compile time and parsed once.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Key names one prompt in captions.json.
type Key string

// Prompt keys.
const (
	// System is sent as the system instruction with every caption request.
	System Key = "system"
	// MatchAsset asks for the catalog asset closest to an event.
	// Placeholders: {{.Assets}}, {{.Event}}.
	MatchAsset Key = "match-asset"
)

//go:embed captions.json
var captionsFile []byte

var (
	loadOnce sync.Once
	loaded   map[Key]string
	loadErr  error
)

func load() (map[Key]string, error) {
	loadOnce.Do(func() {
		var raw map[Key]string
		if err := json.Unmarshal(captionsFile, &raw); err != nil {
			loadErr = fmt.Errorf("failed to parse captions.json: %w", err)
			return
		}
		loaded = raw
	})
	return loaded, loadErr
}

// Get returns the prompt stored under key.
func Get(key Key) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	prompt, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in captions.json", key)
	}
	return prompt, nil
}

// MustGet is Get for prompts needed at package initialization.
func MustGet(key Key) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Name}} placeholders with values from data.
// Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
