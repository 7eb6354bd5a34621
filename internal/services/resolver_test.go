package services_test

import (
	"testing"

	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/services"
)

func resolverFixture() *services.EntryResolver {
	divisions := []models.Division{
		{ID: 1, Code: "P", IsActive: true},
		{ID: 2, Code: "A", IsActive: true},
		{ID: 3, Code: "K1", IsActive: true},
		{ID: 4, Code: "OPEN", IsActive: true},
		{ID: 5, Code: "X", IsActive: false},
	}
	entries := []models.Entry{
		{ID: 10, DivisionID: 1, EntryNumber: "13", IsActive: true},
		{ID: 11, DivisionID: 1, EntryNumber: "14", IsActive: false},
		{ID: 20, DivisionID: 2, EntryNumber: "101", IsActive: true},
		{ID: 30, DivisionID: 3, EntryNumber: "5", IsActive: true},
		{ID: 40, DivisionID: 4, EntryNumber: "42", IsActive: true},
		{ID: 41, DivisionID: 4, EntryNumber: "250", IsActive: true},
		{ID: 50, DivisionID: 5, EntryNumber: "60", IsActive: true},
		{ID: 60, DivisionID: 4, EntryNumber: "b7", IsActive: true},
	}
	return services.NewEntryResolver(divisions, entries)
}

func TestEntryResolver_Resolve(t *testing.T) {
	r := resolverFixture()

	tests := []struct {
		name     string
		key      string
		token    string
		wantID   int
		strategy services.ResolveStrategy
	}{
		{"direct", "P", "13", 10, services.StrategyDirect},
		{"direct lowercase key", "p", "13", 10, services.StrategyDirect},
		{"leading zeros", "P", "013", 10, services.StrategyDirect},
		{"padded token", "A", " 101 ", 20, services.StrategyDirect},
		{"legacy", "K", "5", 30, services.StrategyLegacy},
		{"range P", "P", "42", 40, services.StrategyRange},
		{"range A", "A", "250", 41, services.StrategyRange},
		{"alphanumeric token", "OPEN", "B7", 60, services.StrategyDirect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.key, tt.token)
			if !res.Found() {
				t.Fatalf("expected %s/%s to resolve", tt.key, tt.token)
			}
			if res.Entry.ID != tt.wantID {
				t.Errorf("expected entry %d, got %d", tt.wantID, res.Entry.ID)
			}
			if res.Strategy != tt.strategy {
				t.Errorf("expected strategy %s, got %s", tt.strategy, res.Strategy)
			}
		})
	}
}

func TestEntryResolver_Unresolved(t *testing.T) {
	r := resolverFixture()

	tests := []struct {
		name  string
		key   string
		token string
	}{
		{"inactive entry", "P", "14"},
		{"inactive division", "X", "60"},
		{"inactive division by range", "P", "60"},
		{"range out of bounds for P", "P", "250"},
		{"range out of bounds for A", "A", "42"},
		{"unknown key", "Q", "13"},
		{"legacy requires digits", "O", "42"},
		{"empty token", "P", ""},
		{"empty key", "", "13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.key, tt.token)
			if res.Found() {
				t.Errorf("expected %q/%q not to resolve, got entry %d via %s", tt.key, tt.token, res.Entry.ID, res.Strategy)
			}
			if res.Strategy.String() != "none" {
				t.Errorf("expected strategy none, got %s", res.Strategy)
			}
		})
	}
}

func TestEntryResolver_DirectBeatsRange(t *testing.T) {
	divisions := []models.Division{
		{ID: 1, Code: "P", IsActive: true},
		{ID: 2, Code: "Z", IsActive: true},
	}
	entries := []models.Entry{
		{ID: 1, DivisionID: 1, EntryNumber: "7", IsActive: true},
		{ID: 2, DivisionID: 2, EntryNumber: "8", IsActive: true},
	}
	r := services.NewEntryResolver(divisions, entries)

	if res := r.Resolve("P", "7"); res.Strategy != services.StrategyDirect {
		t.Errorf("expected direct, got %s", res.Strategy)
	}
	if res := r.Resolve("P", "8"); res.Strategy != services.StrategyRange || res.Entry.ID != 2 {
		t.Errorf("expected range match for entry 2, got %s/%d", res.Strategy, res.Entry.ID)
	}
}

func TestEntryResolver_CollidingNumbersDoNotResolve(t *testing.T) {
	divisions := []models.Division{{ID: 1, Code: "P", IsActive: true}}
	entries := []models.Entry{
		{ID: 1, DivisionID: 1, EntryNumber: "7", IsActive: true},
		{ID: 2, DivisionID: 1, EntryNumber: "007", IsActive: true},
		{ID: 3, DivisionID: 1, EntryNumber: "8", IsActive: true},
	}
	r := services.NewEntryResolver(divisions, entries)

	for _, token := range []string{"7", "07", "007"} {
		if res := r.Resolve("P", token); res.Found() {
			t.Errorf("token %q: expected no match for ambiguous number, got entry %d", token, res.Entry.ID)
		}
	}
	if res := r.Resolve("P", "8"); res.Entry.ID != 3 {
		t.Errorf("expected entry 3, got %d", res.Entry.ID)
	}
}

func TestNormalizeEntryNumber(t *testing.T) {
	tests := map[string]string{
		"7":     "7",
		" 007 ": "7",
		"b7":    "B7",
		"":      "",
		"  ":    "",
		"12a":   "12A",
		"0":     "0",
	}
	for in, want := range tests {
		if got := services.NormalizeEntryNumber(in); got != want {
			t.Errorf("NormalizeEntryNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
