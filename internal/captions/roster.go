// Package captions implements the caption collaborator: it describes an event
// with resolved player and team names and asks an LLM for a caption and a
// matching illustrative asset.
package captions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/match-storyteller/internal/types"
)

// Person is a squad member as listed in a squad file.
type Person struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Squad is one team's squad listing.
type Squad struct {
	ContestantID   string   `json:"contestantId"`
	ContestantName string   `json:"contestantName"`
	Person         []Person `json:"person"`
}

type squadFile struct {
	Squad []Squad `json:"squad"`
}

// Roster resolves player and team references to display names.
type Roster struct {
	players map[string]string
	teams   map[string]string
}

// NewRoster indexes the given squads.
func NewRoster(squads ...Squad) *Roster {
	r := &Roster{
		players: make(map[string]string),
		teams:   make(map[string]string),
	}
	for _, sq := range squads {
		if sq.ContestantID != "" {
			r.teams[sq.ContestantID] = sq.ContestantName
		}
		for _, p := range sq.Person {
			r.players[p.ID] = strings.TrimSpace(p.FirstName + " " + p.LastName)
		}
	}
	return r
}

// LoadRoster reads squad files and indexes every squad they contain.
func LoadRoster(paths ...string) (*Roster, error) {
	var squads []Squad
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read squad file %s: %w", path, err)
		}

		var sf squadFile
		if err := json.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("failed to parse squad file %s: %w", path, err)
		}
		squads = append(squads, sf.Squad...)
	}
	return NewRoster(squads...), nil
}

// Player returns the player's name, or the reference itself when unknown.
func (r *Roster) Player(ref string) string {
	if r != nil {
		if name, ok := r.players[ref]; ok && name != "" {
			return name
		}
	}
	return ref
}

// Team returns the team's name, or the reference itself when unknown.
func (r *Roster) Team(ref string) string {
	if r != nil {
		if name, ok := r.teams[ref]; ok && name != "" {
			return name
		}
	}
	return ref
}

// Describe merges an event and its resolved names into the text blob sent to the LLM.
func (r *Roster) Describe(ev types.Event) string {
	var sb strings.Builder
	sb.WriteString(ev.Type + "\n")
	sb.WriteString("comment: " + ev.Comment + "\n")
	sb.WriteString("time: " + ev.Time + "\n")

	if ev.PlayerRef1 != "" {
		sb.WriteString("player-1: " + r.Player(ev.PlayerRef1) + "\n")
	}
	if ev.TeamRef1 != "" {
		sb.WriteString("team-1: " + r.Team(ev.TeamRef1) + "\n")
	}
	if ev.PlayerRef2 != "" {
		sb.WriteString("player-2: " + r.Player(ev.PlayerRef2) + "\n")
	}
	if ev.TeamRef2 != "" {
		sb.WriteString("team-2: " + r.Team(ev.TeamRef2) + "\n")
	}

	return sb.String()
}
