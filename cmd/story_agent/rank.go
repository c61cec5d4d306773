package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/match-storyteller/internal/config"
	"github.com/jonathan/match-storyteller/internal/ranking"
	"github.com/jonathan/match-storyteller/internal/scoring"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the scored event selection for a match feed",
	Long:  "Scores and selects events exactly as generate does, without building pages or calling the caption service. Useful for tuning weight tables.",
	RunE:  runRank,
}

var (
	rankEventsPath  string
	rankWeightsPath string
	rankOutput      string
	rankMaxPages    int
)

func init() {
	rankCmd.Flags().StringVarP(&rankEventsPath, "events", "e", config.DefaultEvents, "Path to the match feed JSON file")
	rankCmd.Flags().StringVarP(&rankWeightsPath, "weights", "w", config.DefaultWeights, "Path to the weight table (JSON or YAML)")
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", "", "Path to write the selection JSON (defaults to stdout; --out is accepted too)")
	rankCmd.Flags().IntVar(&rankMaxPages, "max-pages", 0, "Override the weight table's max_pages")

	rankCmd.Flags().SetNormalizeFunc(outputAlias)

	rootCmd.AddCommand(rankCmd)
}

// rankReport is the JSON document printed by the rank command.
type rankReport struct {
	Match       string                `json:"match"`
	TotalEvents int                   `json:"total_events"`
	MaxPages    int                   `json:"max_pages"`
	Selected    []ranking.ScoredEvent `json:"selected"`
}

func runRank(_ *cobra.Command, _ []string) error {
	report, err := rankEvents(rankEventsPath, rankWeightsPath, rankMaxPages)
	if err != nil {
		return err
	}

	if rankOutput != "" {
		if err := writeJSON(rankOutput, report); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully ranked %d of %d events to %s\n", len(report.Selected), report.TotalEvents, rankOutput)
		return nil
	}

	return printJSON(os.Stdout, report)
}

func rankEvents(eventsPath, weightsPath string, maxPages int) (*rankReport, error) {
	weights, err := config.LoadWeights(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if maxPages > 0 {
		weights.MaxSelectedEvents = maxPages
	}

	feed, err := config.LoadMatchFeed(eventsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load match events: %w", err)
	}

	events := feed.Events()
	selected := ranking.Select(ranking.ScoreEvents(events, scoring.TypeAliases, weights), weights)

	return &rankReport{
		Match:       feed.MatchInfo.Description,
		TotalEvents: len(events),
		MaxPages:    weights.MaxSelectedEvents,
		Selected:    selected,
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
