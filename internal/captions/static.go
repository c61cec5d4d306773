package captions

import (
	"context"

	"github.com/jonathan/match-storyteller/internal/types"
)

// Static returns the same caption for every event. It stands in for the LLM
// in tests and offline runs.
type Static struct {
	Result types.Caption
}

// Caption returns s.Result.
func (s Static) Caption(_ context.Context, _ types.Event) types.Caption {
	return s.Result
}

// Placeholder captions every event with the placeholder asset and the event's
// own comment.
type Placeholder struct{}

// Caption returns the placeholder asset and the event comment.
func (Placeholder) Caption(_ context.Context, ev types.Event) types.Caption {
	return types.Caption{Asset: types.PlaceholderImage, Text: ev.Comment}
}
