package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weightsJSON = `{
	"event_weights": {
		"goal": 5,
		"penalty_missed": 4,
		"shot_on_target": 3,
		"card_red": 3,
		"card_yellow": 1,
		"chance": 2,
		"substitution": 0
	},
	"late_minute_bonus_after": 75,
	"late_minute_bonus": 1,
	"max_pages": 7
}`

const weightsYAML = `
event_weights:
  goal: 5
  card_yellow: 1
late_minute_bonus_after: 80
late_minute_bonus: 2
max_pages: 4
`

func TestLoadWeights_JSON(t *testing.T) {
	weights, err := LoadWeights(writeTemp(t, "weights.json", weightsJSON))
	require.NoError(t, err)

	assert.Equal(t, 5, weights.EventWeights["goal"])
	assert.Equal(t, 0, weights.EventWeights["substitution"])
	assert.Equal(t, 75, weights.LateMinuteThreshold)
	assert.Equal(t, 1, weights.LateMinuteBonus)
	assert.Equal(t, 7, weights.MaxSelectedEvents)
}

func TestLoadWeights_YAML(t *testing.T) {
	weights, err := LoadWeights(writeTemp(t, "weights.yml", weightsYAML))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"goal": 5, "card_yellow": 1}, weights.EventWeights)
	assert.Equal(t, 80, weights.LateMinuteThreshold)
	assert.Equal(t, 2, weights.LateMinuteBonus)
	assert.Equal(t, 4, weights.MaxSelectedEvents)
}

func TestLoadWeights_Errors(t *testing.T) {
	_, err := LoadWeights("/nonexistent/weights.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Contains(t, err.Error(), "weights file")

	_, err = LoadWeights(writeTemp(t, "weights.json", `{ not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode JSON")

	_, err = LoadWeights(writeTemp(t, "weights.yaml", "event_weights: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode YAML")

	_, err = LoadWeights(writeTemp(t, "weights.json", `{"event_weights": {"goal": -2}, "max_pages": 3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weight table")
}

func TestLoadMatchFeed(t *testing.T) {
	feed, err := LoadMatchFeed(writeTemp(t, "match_events.json", `{
		"matchInfo": {"id": "m1", "description": "A vs B", "date": "2025-11-10T20:00:00Z"},
		"messages": [{"message": [{"type": "goal", "minute": "12", "comment": "Goal."}]}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "A vs B", feed.MatchInfo.Description)
	require.Len(t, feed.Events(), 1)
	assert.Equal(t, 12, feed.Events()[0].Minute.Int())

	_, err = LoadMatchFeed("/nonexistent/match_events.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = LoadMatchFeed(writeTemp(t, "match_events.json", `[`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode JSON")
}
