package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEvents(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)

	report, err := rankEvents(cfg.Events, cfg.Weights, 0)
	require.NoError(t, err)

	assert.Equal(t, "Home vs Away", report.Match)
	assert.Equal(t, 4, report.TotalEvents)
	assert.Equal(t, 3, report.MaxPages)
	require.Len(t, report.Selected, 3)

	minutes := []int{}
	for _, s := range report.Selected {
		minutes = append(minutes, s.Event.Minute.Int())
	}
	assert.Equal(t, []int{80, 88, 90}, minutes)
	assert.Equal(t, 12, report.Selected[0].Score)
	assert.Equal(t, 5, report.Selected[1].Score)
	assert.Equal(t, 0, report.Selected[2].Score)
	assert.Equal(t, 1, report.Selected[0].Index)
}

func TestRankEvents_MaxPagesOverride(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)

	report, err := rankEvents(cfg.Events, cfg.Weights, 10)
	require.NoError(t, err)
	assert.Len(t, report.Selected, 4)
}

func TestRankEvents_MissingWeights(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)

	_, err := rankEvents(cfg.Events, cfg.Weights+".missing", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load weights")
}

func TestPrintJSON(t *testing.T) {
	cfg := writeFixtures(t, sampleFeed)
	report, err := rankEvents(cfg.Events, cfg.Weights, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "selected")
	assert.EqualValues(t, 4, decoded["total_events"])
}
