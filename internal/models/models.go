package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// VotingCategory declares how a voting type computes points
type VotingCategory string

const (
	CategoryRanked   VotingCategory = "ranked"
	CategoryApproval VotingCategory = "approval"
	CategoryRating   VotingCategory = "rating"
	CategoryWeighted VotingCategory = "weighted"
)

// Valid reports whether c is one of the known categories
func (c VotingCategory) Valid() bool {
	switch c {
	case CategoryRanked, CategoryApproval, CategoryRating, CategoryWeighted:
		return true
	}
	return false
}

// UsesPlaces reports whether ballots of this category assign places
func (c VotingCategory) UsesPlaces() bool {
	return c == CategoryRanked || c == CategoryWeighted
}

// EventTemplate is a reusable starting point for events
type EventTemplate struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	DefaultVotingTypeID *int   `json:"default_voting_type_id,omitempty"`
}

// Event is a competition instance
type Event struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	IsActive       bool       `json:"is_active"`
	IsPublic       bool       `json:"is_public"`
	VotingStartsAt *time.Time `json:"voting_starts_at,omitempty"`
	VotingEndsAt   *time.Time `json:"voting_ends_at,omitempty"`
	TemplateID     *int       `json:"template_id,omitempty"`
	VotingTypeID   *int       `json:"voting_type_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// WindowState describes where a moment falls relative to an event's voting window
type WindowState int

const (
	WindowOpen WindowState = iota
	WindowNotYetOpen
	WindowClosed
)

// WindowAt reports the voting window state at now. Bounds are inclusive and
// an unset bound never restricts voting.
func (e *Event) WindowAt(now time.Time) WindowState {
	if e.VotingStartsAt != nil && now.Before(*e.VotingStartsAt) {
		return WindowNotYetOpen
	}
	if e.VotingEndsAt != nil && now.After(*e.VotingEndsAt) {
		return WindowClosed
	}
	return WindowOpen
}

// Division is a category of entries within an event
type Division struct {
	ID           int    `json:"id"`
	EventID      int    `json:"event_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// Participant is a competitor registered to an event
type Participant struct {
	ID         int    `json:"id"`
	EventID    int    `json:"event_id"`
	DivisionID *int   `json:"division_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// Entry is a participant's submission, identified in ballots by EntryNumber
type Entry struct {
	ID            int    `json:"id"`
	EventID       int    `json:"event_id"`
	DivisionID    int    `json:"division_id"`
	ParticipantID *int   `json:"participant_id,omitempty"`
	EntryNumber   string `json:"entry_number"`
	Name          string `json:"name"`
	IsActive      bool   `json:"is_active"`
}

// PlaceConfig maps a finishing place to the points it awards
type PlaceConfig struct {
	Place  int     `json:"place"`
	Points float64 `json:"points"`
}

// VotingType describes how votes are turned into points
type VotingType struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Category      VotingCategory `json:"category"`
	Places        []PlaceConfig  `json:"places,omitempty"`
	MaxSelections int            `json:"max_selections,omitempty"`
	PointsPerVote float64        `json:"points_per_vote,omitempty"`
	MinRating     float64        `json:"min_rating,omitempty"`
	MaxRating     float64        `json:"max_rating,omitempty"`
}

// PointsForPlace returns the configured points for a place; a missing place is worth 0
func (vt *VotingType) PointsForPlace(place int) float64 {
	for _, pc := range vt.Places {
		if pc.Place == place {
			return pc.Points
		}
	}
	return 0
}

// Judge is a voter with a weight multiplier for weighted voting types
type Judge struct {
	EventID int     `json:"event_id"`
	UserID  int     `json:"user_id"`
	Name    string  `json:"name"`
	Weight  float64 `json:"weight"`
}

// Vote is one ballot line in the vote ledger
type Vote struct {
	ID               int       `json:"id"`
	BallotID         string    `json:"ballot_id"`
	EventID          int       `json:"event_id"`
	UserID           int       `json:"user_id"`
	EntryID          int       `json:"entry_id"`
	DivisionID       int       `json:"division_id"`
	Place            *int      `json:"place"`
	BasePoints       float64   `json:"base_points"`
	WeightMultiplier float64   `json:"weight_multiplier"`
	FinalPoints      float64   `json:"final_points"`
	VoterIP          string    `json:"voter_ip,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	// Filled by joins on read
	EntryNumber string `json:"entry_number,omitempty"`
	EntryName   string `json:"entry_name,omitempty"`
}

// Ballot scopes
const (
	// ScopeBallot is the whole-ballot scope used by ranked, weighted and approval voting
	ScopeBallot = "ballot"
)

// Ballot records one accepted submission. (EventID, UserID, Scope) is unique.
type Ballot struct {
	ID        string    `json:"id"`
	EventID   int       `json:"event_id"`
	UserID    int       `json:"user_id"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedBallot is a ranked submission: division-type code -> place -> entry-number token.
// An empty token means no selection for that place.
type RankedBallot map[string]map[string]string

// UnmarshalJSON accepts entry-number tokens written as JSON strings or
// integers; null is read as no selection.
func (b *RankedBallot) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RankedBallot, len(raw))
	for key, places := range raw {
		tokens := make(map[string]string, len(places))
		for place, value := range places {
			token, err := decodeEntryToken(value)
			if err != nil {
				return fmt.Errorf("ballot %s.%s: %w", key, place, err)
			}
			tokens[place] = token
		}
		out[key] = tokens
	}
	*b = out
	return nil
}

func decodeEntryToken(value json.RawMessage) (string, error) {
	value = bytes.TrimSpace(value)
	switch {
	case len(value) == 0 || bytes.Equal(value, []byte("null")):
		return "", nil
	case value[0] == '"':
		var s string
		err := json.Unmarshal(value, &s)
		return s, err
	}
	n, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return "", fmt.Errorf("entry number must be a string or an integer, got %s", value)
	}
	return strconv.FormatInt(n, 10), nil
}

// VoteSummary is the denormalized per-entry roll-up of the vote ledger
type VoteSummary struct {
	EntryID     int       `json:"entry_id"`
	EventID     int       `json:"event_id"`
	DivisionID  int       `json:"division_id"`
	TotalPoints float64   `json:"total_points"`
	VoteCount   int       `json:"vote_count"`
	FirstCount  int       `json:"first_count"`
	SecondCount int       `json:"second_count"`
	ThirdCount  int       `json:"third_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Result is one row of an aggregated results view
type Result struct {
	Rank         int     `json:"rank"`
	EntryID      int     `json:"entry_id"`
	EntryNumber  string  `json:"entry_number"`
	EntryName    string  `json:"entry_name"`
	DivisionID   int     `json:"division_id"`
	DivisionName string  `json:"division_name"`
	TotalPoints  float64 `json:"total_points"`
	VoteCount    int     `json:"vote_count"`
	FirstCount   int     `json:"first_count"`
	SecondCount  int     `json:"second_count"`
	ThirdCount   int     `json:"third_count"`
}

// EventStats summarises voting activity for an event
type EventStats struct {
	EventID      int `json:"event_id"`
	Ballots      int `json:"ballots"`
	Votes        int `json:"votes"`
	Voters       int `json:"voters"`
	Entries      int `json:"entries"`
	Divisions    int `json:"divisions"`
	Participants int `json:"participants"`
}

// Tie is a set of entries sharing the leading total within a division
type Tie struct {
	DivisionID   int      `json:"division_id"`
	DivisionName string   `json:"division_name"`
	TotalPoints  float64  `json:"total_points"`
	Entries      []Result `json:"entries"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	EventID int         `json:"event_id,omitempty"`
	Payload interface{} `json:"payload"`
}
