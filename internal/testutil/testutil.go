package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

// Fixture holds the IDs created by the seed helpers
type Fixture struct {
	EventID      int
	VotingTypeID int
	Divisions    map[string]int // division code -> id
	Entries      map[string]int // entry number -> id
}

// RankedVotingType is a ranked type awarding 3/2/1 points for places 1-3
func RankedVotingType() models.VotingType {
	return models.VotingType{
		Name:     "Top three",
		Category: models.CategoryRanked,
		Places:   []models.PlaceConfig{{Place: 1, Points: 3}, {Place: 2, Points: 2}, {Place: 3, Points: 1}},
	}
}

// SeedRankedEvent creates an active event using RankedVotingType with
// divisions "P" (entries 1, 2, 3) and "A" (entries 101, 102).
func SeedRankedEvent(t *testing.T, repo *repository.Repository) *Fixture {
	t.Helper()
	return SeedEvent(t, repo, RankedVotingType(), models.Event{Name: "Spring Show", IsActive: true})
}

// SeedEvent creates event with the given voting type and the standard divisions and entries
func SeedEvent(t *testing.T, repo *repository.Repository, vt models.VotingType, event models.Event) *Fixture {
	t.Helper()
	ctx := context.Background()

	vtID, err := repo.CreateVotingType(ctx, vt)
	if err != nil {
		t.Fatalf("failed to create voting type: %v", err)
	}
	votingTypeID := int(vtID)
	event.VotingTypeID = &votingTypeID

	eventID, err := repo.CreateEvent(ctx, event)
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	f := &Fixture{
		EventID:      int(eventID),
		VotingTypeID: votingTypeID,
		Divisions:    map[string]int{},
		Entries:      map[string]int{},
	}

	f.AddDivision(t, repo, "P", "Professional", "1", "2", "3")
	f.AddDivision(t, repo, "A", "Amateur", "101", "102")
	return f
}

// AddDivision adds a division with active entries to the fixture's event
func (f *Fixture) AddDivision(t *testing.T, repo *repository.Repository, code, name string, entryNumbers ...string) int {
	t.Helper()
	ctx := context.Background()

	divID, err := repo.CreateDivision(ctx, models.Division{
		EventID:      f.EventID,
		Code:         code,
		Name:         name,
		DisplayOrder: len(f.Divisions) + 1,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("failed to create division %s: %v", code, err)
	}
	f.Divisions[code] = int(divID)

	for _, number := range entryNumbers {
		entryID, err := repo.CreateEntry(ctx, models.Entry{
			EventID:     f.EventID,
			DivisionID:  int(divID),
			EntryNumber: number,
			Name:        "Entry " + number,
			IsActive:    true,
		})
		if err != nil {
			t.Fatalf("failed to create entry %s: %v", number, err)
		}
		f.Entries[number] = int(entryID)
	}
	return int(divID)
}
