package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/match-storyteller/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "matchInfo": {"id": "g1", "description": "Home vs Away", "date": "2025-11-10T20:00:00Z"},
  "messages": [{"message": [
    {"type": "start", "minute": "46", "comment": "Second half begins."},
    {"type": "goal", "minute": "80", "comment": "Goal! Home 1, Away 0. Striker finishes low."},
    {"type": "yellow card", "minute": 88, "comment": "Defender is shown the yellow card."},
    {"type": "end", "minute": "90", "comment": "Match ends, Home 1, Away 0."}
  ]}]
}`

const sampleWeights = `{
  "event_weights": {"goal": 10, "card_yellow": 3},
  "late_minute_bonus_after": 75,
  "late_minute_bonus": 2,
  "max_pages": 3
}`

// writeFixtures writes a feed and weight table into a temp dir and returns
// a config pointing at them.
func writeFixtures(t *testing.T, feed string) config.Config {
	t.Helper()
	dir := t.TempDir()

	eventsPath := filepath.Join(dir, "match_events.json")
	require.NoError(t, os.WriteFile(eventsPath, []byte(feed), 0644))

	weightsPath := filepath.Join(dir, "weights.json")
	require.NoError(t, os.WriteFile(weightsPath, []byte(sampleWeights), 0644))

	return config.Config{
		Events:  eventsPath,
		Weights: weightsPath,
		Out:     filepath.Join(dir, "out", "story.json"),
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// resetFlags restores every flag of cmd to its default and clears Changed,
// since cobra commands and their bound variables are package globals.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	})
}

// executeGenerate runs `story_agent generate args...` in process.
func executeGenerate(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(t, generateCmd)
	t.Cleanup(func() {
		resetFlags(t, generateCmd)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs(append([]string{"generate"}, args...))
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return rootCmd.Execute()
}
