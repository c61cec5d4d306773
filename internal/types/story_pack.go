//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Metric keys reported in StoryPack.Metrics.
const (
	MetricGoals      = "goals"
	MetricHighlights = "highlights"
)

// DefaultSource is the source reported when none is given.
const DefaultSource = "data/match_events.json"

// ErrCoverNotFirst is returned when pages[0] is not the cover page.
var ErrCoverNotFirst = errors.New("first page must be the cover page")

// ErrExtraCover is returned when a cover page appears after index 0.
var ErrExtraCover = errors.New("story pack must contain exactly one cover page")

// StoryPack is the publishable story: a cover page followed by event pages.
type StoryPack struct {
	PackID    string         `json:"pack_id" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Source    string         `json:"source" validate:"required"`
	Pages     []Page         `json:"pages" validate:"required,min=1"`
	CreatedAt string         `json:"created_at" validate:"required"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// Validate validates the StoryPack fields and page invariants.
func (s *StoryPack) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid story pack: %w", err)
	}

	for i, page := range s.Pages {
		switch p := page.(type) {
		case CoverPage:
			if i != 0 {
				return fmt.Errorf("page %d: %w", i, ErrExtraCover)
			}
			if err := validate.Struct(p); err != nil {
				return fmt.Errorf("page %d: invalid cover page: %w", i, err)
			}
		case HighlightPage:
			if i == 0 {
				return ErrCoverNotFirst
			}
			if err := validate.Struct(p); err != nil {
				return fmt.Errorf("page %d: invalid highlight page: %w", i, err)
			}
		case InfoPage:
			if i == 0 {
				return ErrCoverNotFirst
			}
		default:
			return fmt.Errorf("page %d: unsupported page type %T", i, page)
		}
	}

	return nil
}

// UnmarshalJSON decodes a story pack, rejecting unknown top-level fields.
func (s *StoryPack) UnmarshalJSON(data []byte) error {
	var raw struct {
		PackID    string            `json:"pack_id"`
		Title     string            `json:"title"`
		Source    string            `json:"source"`
		Pages     []json.RawMessage `json:"pages"`
		CreatedAt string            `json:"created_at"`
		Metrics   map[string]any    `json:"metrics,omitempty"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode story pack: %w", err)
	}

	pages := make([]Page, 0, len(raw.Pages))
	for i, rp := range raw.Pages {
		page, err := DecodePage(rp)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	*s = StoryPack{
		PackID:    raw.PackID,
		Title:     raw.Title,
		Source:    raw.Source,
		Pages:     pages,
		CreatedAt: raw.CreatedAt,
		Metrics:   raw.Metrics,
	}
	return nil
}
