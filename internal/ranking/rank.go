// Package ranking selects the match events that become story pages.
package ranking

import (
	"sort"

	"github.com/jonathan/match-storyteller/internal/scoring"
	"github.com/jonathan/match-storyteller/internal/types"
)

// ScoredEvent pairs an event with its score and its position in the feed.
type ScoredEvent struct {
	Score int         `json:"score"`
	Index int         `json:"index"`
	Event types.Event `json:"event"`
}

// ScoreEvents scores every event, preserving feed order.
func ScoreEvents(events []types.Event, aliases scoring.AliasTable, weights *types.WeightTable) []ScoredEvent {
	scored := make([]ScoredEvent, 0, len(events))
	for i, ev := range events {
		scored = append(scored, ScoredEvent{
			Score: scoring.ResolveWeight(ev, aliases, weights),
			Index: i,
			Event: ev,
		})
	}
	return scored
}

// Select returns the top weights.MaxSelectedEvents scored events in
// chronological order. Priority is score descending, then minute descending;
// events that tie on both keep feed order.
func Select(scored []ScoredEvent, weights *types.WeightTable) []ScoredEvent {
	ordered := make([]ScoredEvent, len(scored))
	copy(ordered, scored)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Event.Minute > ordered[j].Event.Minute
	})

	limit := 0
	if weights != nil {
		limit = weights.MaxSelectedEvents
	}
	if limit < len(ordered) {
		ordered = ordered[:limit]
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Event.Minute < ordered[j].Event.Minute
	})

	return ordered
}

// Rank scores, selects and chronologically orders events for page construction.
func Rank(events []types.Event, aliases scoring.AliasTable, weights *types.WeightTable) []types.Event {
	selected := Select(ScoreEvents(events, aliases, weights), weights)

	ranked := make([]types.Event, 0, len(selected))
	for _, s := range selected {
		ranked = append(ranked, s.Event)
	}
	return ranked
}
