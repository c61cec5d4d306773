// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/match-storyteller/internal/ranking"
	"github.com/jonathan/match-storyteller/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintWeightTable outputs the loaded weight table, heaviest event types first.
func (p *Printer) PrintWeightTable(weights *types.WeightTable) {
	if weights == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Max pages:     %d\n", weights.MaxSelectedEvents))
	sb.WriteString(fmt.Sprintf("Late bonus:    +%d after %d'\n", weights.LateMinuteBonus, weights.LateMinuteThreshold))

	if len(weights.EventWeights) > 0 {
		keys := make([]string, 0, len(weights.EventWeights))
		for k := range weights.EventWeights {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			wi, wj := weights.EventWeights[keys[i]], weights.EventWeights[keys[j]]
			if wi != wj {
				return wi > wj
			}
			return keys[i] < keys[j]
		})

		sb.WriteString("\nEvent weights:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %-20s %d\n", k, weights.EventWeights[k]))
		}
	}

	p.printBox("WEIGHT TABLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedEvents outputs the selected events with their scores.
func (p *Printer) PrintRankedEvents(selected []ranking.ScoredEvent, total int) {
	if len(selected) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected %d of %d events:\n\n", len(selected), total))

	count := min(len(selected), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := selected[i]
		sb.WriteString(fmt.Sprintf("%3d'  %-16s score %d\n", s.Event.Minute.Int(), s.Event.Type, s.Score))
	}

	if len(selected) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more events", len(selected)-maxItemsToShow))
	}

	p.printBox("RANKED EVENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStoryPack outputs a summary of the assembled story pack.
func (p *Printer) PrintStoryPack(pack *types.StoryPack) {
	if pack == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pack:     %s\n", pack.PackID))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", pack.Title))
	sb.WriteString(fmt.Sprintf("Created:  %s\n", pack.CreatedAt))
	if len(pack.Metrics) > 0 {
		sb.WriteString(fmt.Sprintf("Goals: %v  Highlights: %v\n",
			pack.Metrics[types.MetricGoals], pack.Metrics[types.MetricHighlights]))
	}
	sb.WriteString("\n")

	count := min(len(pack.Pages), maxItemsToShow)
	for i := 0; i < count; i++ {
		page := pack.Pages[i]
		var headline string
		switch pg := page.(type) {
		case types.CoverPage:
			headline = pg.Headline
		case types.HighlightPage:
			headline = pg.Headline
		case types.InfoPage:
			headline = pg.Headline
		}
		sb.WriteString(fmt.Sprintf("[%-9s] %s\n", page.Kind(), headline))
	}

	if len(pack.Pages) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more pages", len(pack.Pages)-maxItemsToShow))
	}

	p.printBox("STORY PACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the outcome of schema validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ STORY PACK MATCHES SCHEMA")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	p.printBox("SCHEMA VALIDATION FAILED", strings.TrimSuffix(err.Error(), "\n"))
}
