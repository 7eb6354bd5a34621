package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestVotingCategory_Valid(t *testing.T) {
	for _, c := range []VotingCategory{CategoryRanked, CategoryApproval, CategoryRating, CategoryWeighted} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if VotingCategory("borda").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestVotingCategory_UsesPlaces(t *testing.T) {
	if !CategoryRanked.UsesPlaces() || !CategoryWeighted.UsesPlaces() {
		t.Error("expected ranked and weighted to use places")
	}
	if CategoryApproval.UsesPlaces() || CategoryRating.UsesPlaces() {
		t.Error("expected approval and rating not to use places")
	}
}

func TestVotingType_PointsForPlace(t *testing.T) {
	vt := VotingType{Places: []PlaceConfig{{1, 3}, {2, 2}, {3, 1}}}

	if got := vt.PointsForPlace(1); got != 3 {
		t.Errorf("expected 3 points for 1st, got %v", got)
	}
	if got := vt.PointsForPlace(3); got != 1 {
		t.Errorf("expected 1 point for 3rd, got %v", got)
	}
	if got := vt.PointsForPlace(4); got != 0 {
		t.Errorf("expected missing place to be worth 0, got %v", got)
	}
}

func TestEvent_WindowAt(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)
	ev := Event{VotingStartsAt: &start, VotingEndsAt: &end}

	tests := []struct {
		name string
		now  time.Time
		want WindowState
	}{
		{"before start", start.Add(-time.Minute), WindowNotYetOpen},
		{"at start", start, WindowOpen},
		{"inside", start.Add(time.Hour), WindowOpen},
		{"at end", end, WindowOpen},
		{"after end", end.Add(time.Second), WindowClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ev.WindowAt(tt.now); got != tt.want {
				t.Errorf("WindowAt = %v, want %v", got, tt.want)
			}
		})
	}

	open := Event{}
	if open.WindowAt(time.Now()) != WindowOpen {
		t.Error("expected an event without a window to always be open")
	}
}

func TestRankedBallot_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want RankedBallot
	}{
		{"strings", `{"P":{"1":"13","2":""}}`, RankedBallot{"P": {"1": "13", "2": ""}}},
		{"integers", `{"P":{"1":1},"A":{"1":101}}`, RankedBallot{"P": {"1": "1"}, "A": {"1": "101"}}},
		{"mixed with null", `{"P":{"1":7,"2":"8","3":null}}`, RankedBallot{"P": {"1": "7", "2": "8", "3": ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RankedBallot
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for key, places := range tt.want {
				for place, token := range places {
					if got[key][place] != token {
						t.Errorf("%s.%s: expected %q, got %q", key, place, token, got[key][place])
					}
				}
			}
		})
	}
}

func TestRankedBallot_UnmarshalJSON_RejectsOtherTokens(t *testing.T) {
	for _, body := range []string{`{"P":{"1":1.5}}`, `{"P":{"1":true}}`, `{"P":{"1":[1]}}`, `{"P":["1"]}`} {
		var got RankedBallot
		if err := json.Unmarshal([]byte(body), &got); err == nil {
			t.Errorf("expected error for %s, got %v", body, got)
		}
	}
}
