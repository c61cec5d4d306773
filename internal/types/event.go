// Package types provides type definitions for the match feed, weight tables and story packs.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Minute is a match minute decoded leniently from the feed.
// Feeds carry minutes as integers or numeric strings; anything else decodes to 0.
type Minute int

// UnmarshalJSON accepts a JSON number or a numeric string and never fails.
func (m *Minute) UnmarshalJSON(data []byte) error {
	*m = Minute(parseMinute(data))
	return nil
}

func parseMinute(data []byte) int {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		text = strings.TrimSpace(s)
		if n, err := strconv.Atoi(text); err == nil {
			return n
		}
		return 0
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	// 45.0 style numbers truncate toward zero
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// Int returns the minute as an int.
func (m Minute) Int() int {
	return int(m)
}

// Event is one timestamped occurrence in a match feed.
type Event struct {
	Type       string `json:"type"`
	Minute     Minute `json:"minute"`
	Comment    string `json:"comment"`
	Time       string `json:"time,omitempty"`
	PlayerRef1 string `json:"playerRef1,omitempty"`
	TeamRef1   string `json:"teamRef1,omitempty"`
	PlayerRef2 string `json:"playerRef2,omitempty"`
	TeamRef2   string `json:"teamRef2,omitempty"`
}

// MatchInfo describes the match a feed belongs to.
type MatchInfo struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

// MessageBlock groups the commentary messages of a feed.
type MessageBlock struct {
	Message []Event `json:"message"`
}

// MatchFeed is the raw commentary feed for one match.
type MatchFeed struct {
	MatchInfo MatchInfo      `json:"matchInfo"`
	Messages  []MessageBlock `json:"messages"`
}

// Events returns the events of the first message block, or nil when the feed has none.
func (f *MatchFeed) Events() []Event {
	if f == nil || len(f.Messages) == 0 {
		return nil
	}
	return f.Messages[0].Message
}
