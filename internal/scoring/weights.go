// Package scoring resolves match event types to canonical weight keys and scores.
package scoring

import "github.com/jonathan/match-storyteller/internal/types"

// AliasTable maps a raw feed event type to the canonical key used in weight tables.
type AliasTable map[string]string

// TypeAliases is the fixed alias table for the commentary feed.
// Types not listed map to themselves.
var TypeAliases = AliasTable{
	"goal":            "goal",
	"penalty goal":    "goal",
	"penalty lost":    "penalty_missed",
	"attempt saved":   "shot_on_target",
	"attempt blocked": "shot_on_target",
	"miss":            "chance",
	"post":            "chance",
	"yellow card":     "card_yellow",
	"red card":        "card_red",
	"substitution":    "substitution",
	"penalty won":     "shot_on_target",
}

// CanonicalKey returns the weight key for a raw event type.
func (a AliasTable) CanonicalKey(eventType string) string {
	if key, ok := a[eventType]; ok {
		return key
	}
	return eventType
}

// BaseWeight returns the weight of an event type before any bonus.
func BaseWeight(eventType string, aliases AliasTable, weights *types.WeightTable) int {
	return weights.Weight(aliases.CanonicalKey(eventType))
}

// ResolveWeight scores an event. Untracked types score 0 and never receive the
// late-minute bonus.
func ResolveWeight(event types.Event, aliases AliasTable, weights *types.WeightTable) int {
	score := BaseWeight(event.Type, aliases, weights)
	if score > 0 && event.Minute.Int() > weights.LateMinuteThreshold {
		score += weights.LateMinuteBonus
	}
	return score
}

// HighlightTypes returns the raw event types whose canonical key carries a
// strictly positive weight. Candidates are every aliased type plus every
// weight key used literally as a type.
func HighlightTypes(aliases AliasTable, weights *types.WeightTable) map[string]bool {
	set := make(map[string]bool)
	for rawType := range aliases {
		if BaseWeight(rawType, aliases, weights) > 0 {
			set[rawType] = true
		}
	}
	if weights != nil {
		for key := range weights.EventWeights {
			if BaseWeight(key, aliases, weights) > 0 {
				set[key] = true
			}
		}
	}
	return set
}
