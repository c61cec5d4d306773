package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/match-storyteller/internal/captions"
	"github.com/jonathan/match-storyteller/internal/config"
	"github.com/jonathan/match-storyteller/internal/llm"
	"github.com/jonathan/match-storyteller/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPack(t *testing.T, path string) types.StoryPack {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var pack types.StoryPack
	require.NoError(t, json.Unmarshal(data, &pack))
	return pack
}

func TestGenerateStory_Lenient(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	var stdout bytes.Buffer

	pack, err := generateStory(context.Background(), cfg, nil, quietLogger(), &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String(), "non-verbose runs print nothing")

	written := readPack(t, cfg.Out)
	assert.Equal(t, "g1", written.PackID)
	assert.Equal(t, "Home vs Away", written.Title)
	assert.Equal(t, cfg.Events, written.Source)
	assert.Equal(t, "2025-11-10T20:00:00Z", written.CreatedAt)
	require.Len(t, written.Pages, 4)
	assert.Equal(t, len(pack.Pages), len(written.Pages))

	assert.Equal(t, types.PageKindCover, written.Pages[0].Kind())
	goal, ok := written.Pages[1].(types.HighlightPage)
	require.True(t, ok)
	assert.Equal(t, "80' GOAL! -- Goal! Home 1, Away 0", goal.Headline)
	assert.Equal(t, "Goal! Home 1, Away 0. Striker finishes low.", goal.Caption)
	card, ok := written.Pages[2].(types.HighlightPage)
	require.True(t, ok)
	assert.Equal(t, 88, card.Minute)
	end, ok := written.Pages[3].(types.InfoPage)
	require.True(t, ok)
	assert.Equal(t, "90' Match End", end.Headline)

	assert.EqualValues(t, 1, written.Metrics[types.MetricGoals])
	assert.EqualValues(t, 2, written.Metrics[types.MetricHighlights])
}

func TestGenerateStory_MaxPagesOverride(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	cfg.MaxPages = 1

	pack, err := generateStory(context.Background(), cfg, nil, quietLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, pack.Pages, 2)
	assert.Equal(t, types.PageKindHighlight, pack.Pages[1].Kind())
}

func TestGenerateStory_StrictValid(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	cfg.Strict = true

	_, err := generateStory(context.Background(), cfg, nil, quietLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, cfg.Out)
}

func TestGenerateStory_StrictInvalidIsNotWritten(t *testing.T) {
	feed := strings.Replace(sampleFeed, `"description": "Home vs Away"`, `"description": ""`, 1)
	cfg := writeFixtures(t, feed)
	cfg.Strict = true

	_, err := generateStory(context.Background(), cfg, nil, quietLogger(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not written")
	assert.NoFileExists(t, cfg.Out)
}

func TestGenerateStory_LenientWritesIncompletePack(t *testing.T) {
	feed := strings.Replace(sampleFeed, `"description": "Home vs Away"`, `"description": ""`, 1)
	cfg := writeFixtures(t, feed)

	_, err := generateStory(context.Background(), cfg, nil, quietLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, cfg.Out)
}

func TestGenerateStory_MissingInputs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "missing weights",
			mutate:  func(cfg *config.Config) { cfg.Weights = filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "failed to load weights",
		},
		{
			name:    "missing events",
			mutate:  func(cfg *config.Config) { cfg.Events = filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "failed to load match events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeFixtures(t, sampleFeed)
			tt.mutate(&cfg)

			_, err := generateStory(context.Background(), cfg, nil, quietLogger(), &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.ErrorIs(t, err, config.ErrFileNotFound)
			assert.NoFileExists(t, cfg.Out)
		})
	}
}

func TestGenerateStory_WithCaptioner(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	captioner := captions.Static{Result: types.Caption{Asset: "assets/goal.png", Text: "A late winner."}}

	pack, err := generateStory(context.Background(), cfg, captioner, quietLogger(), &bytes.Buffer{})
	require.NoError(t, err)

	highlight, ok := pack.Pages[1].(types.HighlightPage)
	require.True(t, ok)
	assert.Equal(t, "assets/goal.png", highlight.Image)
	assert.Equal(t, "A late winner.", highlight.Explanation)

	info, ok := pack.Pages[3].(types.InfoPage)
	require.True(t, ok)
	assert.Equal(t, "Match ends, Home 1, Away 0.", info.Body)
}

func TestGenerateStory_VerbosePrintsSummaries(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	cfg.Verbose = true
	var stdout bytes.Buffer

	_, err := generateStory(context.Background(), cfg, nil, quietLogger(), &stdout)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "WEIGHT TABLE")
	assert.Contains(t, output, "RANKED EVENTS")
	assert.Contains(t, output, "STORY PACK")
}

func TestNewCaptioner_Disabled(t *testing.T) {
	captioner, closeFn, err := newCaptioner(context.Background(), config.Config{}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, captioner)
	assert.NoError(t, closeFn())
}

func TestNewCaptioner_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, closeFn, err := newCaptioner(context.Background(), config.Config{Captions: true}, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.NoError(t, closeFn())
}

func TestNewCaptioner_MissingSquad(t *testing.T) {
	cfg := config.Config{
		Captions: true,
		APIKey:   "test-key",
		Squads:   []string{filepath.Join(t.TempDir(), "squad.json")},
	}

	_, _, err := newCaptioner(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load squads")
}

func TestGenerateCommand_StrictAndLenientAreExclusive(t *testing.T) {
	err := executeGenerate(t, "--strict", "--lenient")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestGenerateCommand_OutputFlagNames(t *testing.T) {
	for _, name := range []string{"--output", "--out", "-o"} {
		t.Run(name, func(t *testing.T) {
			cfg := writeFixtures(t, sampleFeed)

			err := executeGenerate(t, "-e", cfg.Events, "-w", cfg.Weights, name, cfg.Out)
			require.NoError(t, err)
			assert.Equal(t, "g1", readPack(t, cfg.Out).PackID)
		})
	}
}

func TestGenerateCommand_LenientFalseDoesNotEnableStrict(t *testing.T) {
	feed := strings.Replace(sampleFeed, `"description": "Home vs Away"`, `"description": ""`, 1)
	cfg := writeFixtures(t, feed)

	err := executeGenerate(t, "-e", cfg.Events, "-w", cfg.Weights, "-o", cfg.Out, "--lenient=false")
	require.NoError(t, err)
	assert.FileExists(t, cfg.Out)
}

func TestGenerateCommand_LenientOverridesStrictConfig(t *testing.T) {
	feed := strings.Replace(sampleFeed, `"description": "Home vs Away"`, `"description": ""`, 1)
	cfg := writeFixtures(t, feed)
	configPath := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("strict: true\n"), 0644))

	err := executeGenerate(t, "--config", configPath, "-e", cfg.Events, "-w", cfg.Weights, "-o", cfg.Out)
	require.Error(t, err, "strict from the config file withholds the pack")
	assert.NoFileExists(t, cfg.Out)

	err = executeGenerate(t, "--config", configPath, "-e", cfg.Events, "-w", cfg.Weights, "-o", cfg.Out, "--lenient")
	require.NoError(t, err)
	assert.FileExists(t, cfg.Out)
}

func TestCaptionLLMConfig(t *testing.T) {
	defaults := captionLLMConfig("")
	assert.Equal(t, captions.SystemPrompt, defaults.SystemInstruction)
	assert.NotEqual(t, defaults.GetModel(llm.TierLite), defaults.GetModel(llm.TierStandard))

	overridden := captionLLMConfig("gemini-2.0-flash-001")
	assert.Equal(t, "gemini-2.0-flash-001", overridden.GetModel(llm.TierLite))
	assert.Equal(t, "gemini-2.0-flash-001", overridden.GetModel(llm.TierStandard))
	assert.Equal(t, captions.SystemPrompt, overridden.SystemInstruction)
}

func TestNewCaptioner_Offline(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := writeFixtures(t, sampleFeed)
	cfg.OfflineCaptions = true
	cfg.Captions = true

	captioner, closeFn, err := newCaptioner(context.Background(), cfg, quietLogger())
	require.NoError(t, err, "offline captions need no API key")
	assert.Equal(t, captions.Placeholder{}, captioner)
	assert.NoError(t, closeFn())

	pack, err := generateStory(context.Background(), cfg, captioner, quietLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	highlight, ok := pack.Pages[1].(types.HighlightPage)
	require.True(t, ok)
	assert.Equal(t, types.PlaceholderImage, highlight.Image)
	assert.Equal(t, "Goal! Home 1, Away 0. Striker finishes low.", highlight.Explanation)
}
