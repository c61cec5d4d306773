// Package pages turns selected match events into story pages.
package pages

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/match-storyteller/internal/scoring"
	"github.com/jonathan/match-storyteller/internal/types"
)

type category int

const (
	categoryOther category = iota
	categoryGoal
	categoryCard
	categoryChance
	categoryPenaltyWon
	categoryPenaltyMissed
)

var categories = map[string]category{
	"goal":            categoryGoal,
	"penalty goal":    categoryGoal,
	"yellow card":     categoryCard,
	"red card":        categoryCard,
	"attempt saved":   categoryChance,
	"attempt blocked": categoryChance,
	"post":            categoryChance,
	"miss":            categoryChance,
	"penalty won":     categoryPenaltyWon,
	"penalty lost":    categoryPenaltyMissed,
}

// Classification is the result of classifying one event.
type Classification struct {
	Page        types.Page
	IsGoal      bool
	IsHighlight bool
}

// Classifier decides whether an event becomes a highlight or an info page.
type Classifier struct {
	highlightTypes map[string]bool
}

// NewClassifier precomputes the highlight-worthy types for one run.
func NewClassifier(aliases scoring.AliasTable, weights *types.WeightTable) *Classifier {
	return &Classifier{highlightTypes: scoring.HighlightTypes(aliases, weights)}
}

// IsHighlightWorthy reports whether a raw event type becomes a highlight page.
func (c *Classifier) IsHighlightWorthy(eventType string) bool {
	return c.highlightTypes[eventType]
}

// Classify builds the page for an event.
func (c *Classifier) Classify(event types.Event) Classification {
	minute := event.Minute.Int()

	if !c.IsHighlightWorthy(event.Type) {
		return Classification{
			Page: types.InfoPage{
				Headline: fmt.Sprintf("%d' Match %s", minute, capitalize(event.Type)),
				Body:     event.Comment,
			},
		}
	}

	cat := categories[event.Type]
	return Classification{
		Page: types.HighlightPage{
			Headline: Headline(event),
			Caption:  event.Comment,
			Minute:   minute,
			Image:    types.PlaceholderImage,
		},
		IsGoal:      cat == categoryGoal,
		IsHighlight: true,
	}
}

// Headline formats the highlight headline for an event.
func Headline(event types.Event) string {
	minute := event.Minute.Int()
	lead := FirstSentence(event.Comment)

	switch categories[event.Type] {
	case categoryGoal:
		return fmt.Sprintf("%d' GOAL! -- %s", minute, lead)
	case categoryChance:
		return fmt.Sprintf("%d' CHANCE! -- %s", minute, lead)
	case categoryPenaltyWon:
		return fmt.Sprintf("%d' PENALTY! -- %s", minute, lead)
	case categoryPenaltyMissed:
		return fmt.Sprintf("%d' PENALTY MISSED! -- %s", minute, lead)
	case categoryCard, categoryOther:
		return fmt.Sprintf("%d' %s -- %s", minute, strings.ToUpper(event.Type), lead)
	default:
		panic(fmt.Sprintf("pages: unhandled category for %q", event.Type))
	}
}

// FirstSentence returns the text before the first period, or the whole text.
func FirstSentence(comment string) string {
	before, _, _ := strings.Cut(comment, ".")
	return before
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
