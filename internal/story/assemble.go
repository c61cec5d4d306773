// Package story assembles ranked match events into a story pack.
package story

import (
	"context"
	"fmt"

	"github.com/jonathan/match-storyteller/internal/pages"
	"github.com/jonathan/match-storyteller/internal/types"
)

// Captioner produces a caption and an illustrative asset for an event.
// Implementations absorb their own failures and return an empty Caption instead.
type Captioner interface {
	Caption(ctx context.Context, event types.Event) types.Caption
}

// Metrics are the counters reported alongside the pages.
type Metrics struct {
	Goals      int
	Highlights int
}

// Map returns the metrics in the shape written to StoryPack.Metrics.
func (m Metrics) Map() map[string]any {
	return map[string]any{
		types.MetricGoals:      m.Goals,
		types.MetricHighlights: m.Highlights,
	}
}

// Assembler builds the ordered page list for a story.
type Assembler struct {
	classifier *pages.Classifier
	captioner  Captioner
}

// NewAssembler creates an Assembler. captioner may be nil.
func NewAssembler(classifier *pages.Classifier, captioner Captioner) *Assembler {
	return &Assembler{classifier: classifier, captioner: captioner}
}

// Assemble emits the cover page followed by one page per ranked event.
func (a *Assembler) Assemble(ctx context.Context, matchInfo types.MatchInfo, ranked []types.Event) ([]types.Page, Metrics) {
	result := make([]types.Page, 0, len(ranked)+1)
	result = append(result, types.CoverPage{
		Headline: matchInfo.Description,
		Image:    types.PlaceholderImage,
	})

	var metrics Metrics
	for _, ev := range ranked {
		c := a.classifier.Classify(ev)
		if c.IsHighlight {
			metrics.Highlights++
		}
		if c.IsGoal {
			metrics.Goals++
		}
		result = append(result, a.enrich(ctx, ev, c.Page))
	}

	return result, metrics
}

// enrich attaches the captioner's asset and text to highlight pages.
func (a *Assembler) enrich(ctx context.Context, ev types.Event, page types.Page) types.Page {
	if a.captioner == nil {
		return page
	}

	switch p := page.(type) {
	case types.HighlightPage:
		caption := a.captioner.Caption(ctx, ev)
		if caption.Empty() {
			return p
		}
		if caption.Asset != "" {
			p.Image = caption.Asset
		}
		if caption.Text != "" {
			p.Explanation = caption.Text
		}
		return p
	case types.CoverPage, types.InfoPage:
		return page
	default:
		panic(fmt.Sprintf("story: unsupported page type %T", page))
	}
}
