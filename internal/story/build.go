package story

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/match-storyteller/internal/pages"
	"github.com/jonathan/match-storyteller/internal/ranking"
	"github.com/jonathan/match-storyteller/internal/scoring"
	"github.com/jonathan/match-storyteller/internal/types"
)

// BuildOptions controls the parts of a story pack that do not come from the feed.
type BuildOptions struct {
	// Source is reported as the pack source; defaults to types.DefaultSource.
	Source string
	// Captioner is consulted once per highlight event when set.
	Captioner Captioner
	// Now is used for created_at when the match date is missing or malformed.
	Now func() time.Time
	// NewID generates a pack id when the match has none.
	NewID func() string
}

// BuildStoryPack ranks the feed's events and assembles the resulting story pack.
func BuildStoryPack(ctx context.Context, feed *types.MatchFeed, weights *types.WeightTable, opts BuildOptions) *types.StoryPack {
	ranked := ranking.Rank(feed.Events(), scoring.TypeAliases, weights)

	assembler := NewAssembler(pages.NewClassifier(scoring.TypeAliases, weights), opts.Captioner)
	storyPages, metrics := assembler.Assemble(ctx, feed.MatchInfo, ranked)

	source := opts.Source
	if source == "" {
		source = types.DefaultSource
	}

	return &types.StoryPack{
		PackID:    packID(feed.MatchInfo, opts.NewID),
		Title:     feed.MatchInfo.Description,
		Source:    source,
		Pages:     storyPages,
		CreatedAt: createdAt(feed.MatchInfo, opts.Now),
		Metrics:   metrics.Map(),
	}
}

func packID(info types.MatchInfo, newID func() string) string {
	if info.ID != "" {
		return info.ID
	}
	if newID != nil {
		return newID()
	}
	return uuid.NewString()
}

// createdAt normalises the match date to RFC 3339, keeping its offset.
func createdAt(info types.MatchInfo, now func() time.Time) string {
	if info.Date != "" {
		if t, err := time.Parse(time.RFC3339, info.Date); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339)
}
