package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

type seeded struct {
	eventID    int
	divisionP  int
	divisionA  int
	entries    map[string]int
	votingType int
}

// seedEvent creates a ranked 3/2/1 event with divisions P (1, 2, 3) and A (101)
func seedEvent(t *testing.T, repo *Repository) seeded {
	t.Helper()
	ctx := context.Background()

	vtID, err := repo.CreateVotingType(ctx, models.VotingType{
		Name:     "Ranked",
		Category: models.CategoryRanked,
		Places:   []models.PlaceConfig{{Place: 1, Points: 3}, {Place: 2, Points: 2}, {Place: 3, Points: 1}},
	})
	if err != nil {
		t.Fatalf("CreateVotingType failed: %v", err)
	}
	vt := int(vtID)

	eventID, err := repo.CreateEvent(ctx, models.Event{Name: "Show", IsActive: true, VotingTypeID: &vt})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	s := seeded{eventID: int(eventID), votingType: vt, entries: map[string]int{}}
	p, err := repo.CreateDivision(ctx, models.Division{EventID: s.eventID, Code: "P", Name: "Professional", IsActive: true, DisplayOrder: 1})
	if err != nil {
		t.Fatalf("CreateDivision failed: %v", err)
	}
	a, err := repo.CreateDivision(ctx, models.Division{EventID: s.eventID, Code: "A", Name: "Amateur", IsActive: true, DisplayOrder: 2})
	if err != nil {
		t.Fatalf("CreateDivision failed: %v", err)
	}
	s.divisionP, s.divisionA = int(p), int(a)

	for _, e := range []struct {
		number   string
		division int
	}{{"1", s.divisionP}, {"2", s.divisionP}, {"3", s.divisionP}, {"101", s.divisionA}} {
		id, err := repo.CreateEntry(ctx, models.Entry{EventID: s.eventID, DivisionID: e.division, EntryNumber: e.number, Name: "Entry " + e.number, IsActive: true})
		if err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
		s.entries[e.number] = int(id)
	}
	return s
}

func place(n int) *int { return &n }

func castRanked(t *testing.T, repo *Repository, s seeded, ballotID string, userID int, picks map[int]string) {
	t.Helper()
	var votes []models.Vote
	points := map[int]float64{1: 3, 2: 2, 3: 1}
	for p, number := range picks {
		division := s.divisionP
		if number == "101" {
			division = s.divisionA
		}
		votes = append(votes, models.Vote{
			EntryID: s.entries[number], DivisionID: division, Place: place(p),
			BasePoints: points[p], WeightMultiplier: 1, FinalPoints: points[p],
		})
	}
	ballot := models.Ballot{ID: ballotID, EventID: s.eventID, UserID: userID, Scope: models.ScopeBallot}
	if err := repo.CastBallot(context.Background(), ballot, votes); err != nil {
		t.Fatalf("CastBallot failed: %v", err)
	}
}

// ==================== Event Tests ====================

func TestCreateEvent_WithWindowAndVotingType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	id, err := repo.CreateEvent(ctx, models.Event{Name: "Windowed", IsActive: true, VotingStartsAt: &start, VotingEndsAt: &end, VotingTypeID: &s.votingType})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	ev, err := repo.GetEvent(ctx, int(id))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if ev.VotingStartsAt == nil || !ev.VotingStartsAt.Equal(start) {
		t.Errorf("expected start %v, got %v", start, ev.VotingStartsAt)
	}
	if ev.VotingEndsAt == nil || !ev.VotingEndsAt.Equal(end) {
		t.Errorf("expected end %v, got %v", end, ev.VotingEndsAt)
	}
	if ev.VotingTypeID == nil || *ev.VotingTypeID != s.votingType {
		t.Errorf("expected voting type %d, got %v", s.votingType, ev.VotingTypeID)
	}
}

func TestGetEvent_NonExistent(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetEvent(context.Background(), 999)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteEvent_HidesEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	if err := repo.SoftDeleteEvent(ctx, s.eventID); err != nil {
		t.Fatalf("SoftDeleteEvent failed: %v", err)
	}
	if _, err := repo.GetEvent(ctx, s.eventID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after soft delete, got %v", err)
	}
	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events listed, got %d", len(events))
	}
	if err := repo.SoftDeleteEvent(ctx, s.eventID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestUpdateEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	ev, _ := repo.GetEvent(ctx, s.eventID)
	ev.Name = "Renamed"
	ev.IsActive = false
	if err := repo.UpdateEvent(ctx, *ev); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	got, _ := repo.GetEvent(ctx, s.eventID)
	if got.Name != "Renamed" || got.IsActive {
		t.Errorf("update not applied: %+v", got)
	}

	ev.ID = 999
	if err := repo.UpdateEvent(ctx, *ev); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetEventVotingType_Replaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	approvalID, err := repo.CreateVotingType(ctx, models.VotingType{Name: "Approve", Category: models.CategoryApproval, MaxSelections: 2, PointsPerVote: 1})
	if err != nil {
		t.Fatalf("CreateVotingType failed: %v", err)
	}
	if err := repo.SetEventVotingType(ctx, s.eventID, int(approvalID)); err != nil {
		t.Fatalf("SetEventVotingType failed: %v", err)
	}

	vt, err := repo.GetEventVotingType(ctx, s.eventID)
	if err != nil {
		t.Fatalf("GetEventVotingType failed: %v", err)
	}
	if vt.Category != models.CategoryApproval || vt.MaxSelections != 2 {
		t.Errorf("unexpected voting type %+v", vt)
	}
}

func TestTemplates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTemplate(ctx, models.EventTemplate{Name: "Chili cook-off", Description: "Annual"})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	tpl, err := repo.GetTemplate(ctx, int(id))
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if tpl.Name != "Chili cook-off" || tpl.DefaultVotingTypeID != nil {
		t.Errorf("unexpected template %+v", tpl)
	}

	list, _ := repo.ListTemplates(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 template, got %d", len(list))
	}
	if err := repo.DeleteTemplate(ctx, int(id)); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := repo.GetTemplate(ctx, int(id)); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Entry Tests ====================

func TestCreateEntry_DuplicateNumber(t *testing.T) {
	repo := newTestRepo(t)
	s := seedEvent(t, repo)

	_, err := repo.CreateEntry(context.Background(), models.Entry{EventID: s.eventID, DivisionID: s.divisionA, EntryNumber: "1", IsActive: true})
	if err != ErrDuplicateEntryNumber {
		t.Errorf("expected ErrDuplicateEntryNumber, got %v", err)
	}
}

func TestListEntries_NumericOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	if _, err := repo.CreateEntry(ctx, models.Entry{EventID: s.eventID, DivisionID: s.divisionP, EntryNumber: "10", IsActive: false}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	all, err := repo.ListEntries(ctx, s.eventID)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	want := []string{"1", "2", "3", "10", "101"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, e := range all {
		if e.EntryNumber != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], e.EntryNumber)
		}
	}

	active, _ := repo.ListActiveEntries(ctx, s.eventID)
	if len(active) != 4 {
		t.Errorf("expected 4 active entries, got %d", len(active))
	}
}

func TestDeleteEntry_WithVotesIsInUse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)
	castRanked(t, repo, s, "b1", 1, map[int]string{1: "1"})

	if err := repo.DeleteEntry(ctx, s.eventID, s.entries["1"]); err != ErrInUse {
		t.Errorf("expected ErrInUse, got %v", err)
	}
	if err := repo.DeleteEntry(ctx, s.eventID, s.entries["2"]); err != nil {
		t.Errorf("expected unvoted entry to delete, got %v", err)
	}
}

func TestListDivisions_DisplayOrder(t *testing.T) {
	repo := newTestRepo(t)
	s := seedEvent(t, repo)

	divisions, err := repo.ListDivisions(context.Background(), s.eventID)
	if err != nil {
		t.Fatalf("ListDivisions failed: %v", err)
	}
	if len(divisions) != 2 || divisions[0].Code != "P" || divisions[1].Code != "A" {
		t.Errorf("unexpected divisions %+v", divisions)
	}
}

func TestParticipants(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	id, err := repo.CreateParticipant(ctx, models.Participant{EventID: s.eventID, DivisionID: &s.divisionP, Name: "Ada"})
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	list, _ := repo.ListParticipants(ctx, s.eventID)
	if len(list) != 1 || list[0].DivisionID == nil || *list[0].DivisionID != s.divisionP {
		t.Errorf("unexpected participants %+v", list)
	}
	if err := repo.DeleteParticipant(ctx, s.eventID, int(id)); err != nil {
		t.Errorf("DeleteParticipant failed: %v", err)
	}
}

// ==================== Voting Type / Judge Tests ====================

func TestGetVotingType_PlacesOrdered(t *testing.T) {
	repo := newTestRepo(t)
	s := seedEvent(t, repo)

	vt, err := repo.GetVotingType(context.Background(), s.votingType)
	if err != nil {
		t.Fatalf("GetVotingType failed: %v", err)
	}
	if len(vt.Places) != 3 || vt.Places[0].Place != 1 || vt.Places[0].Points != 3 {
		t.Errorf("unexpected places %+v", vt.Places)
	}
}

func TestDeleteVotingType_InUse(t *testing.T) {
	repo := newTestRepo(t)
	s := seedEvent(t, repo)

	if err := repo.DeleteVotingType(context.Background(), s.votingType); err != ErrInUse {
		t.Errorf("expected ErrInUse, got %v", err)
	}
}

func TestListVotingTypes(t *testing.T) {
	repo := newTestRepo(t)
	seedEvent(t, repo)

	types, err := repo.ListVotingTypes(context.Background())
	if err != nil {
		t.Fatalf("ListVotingTypes failed: %v", err)
	}
	if len(types) != 1 || len(types[0].Places) != 3 {
		t.Errorf("unexpected voting types %+v", types)
	}
}

func TestJudges(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	if _, ok, err := repo.GetJudgeWeight(ctx, s.eventID, 7); err != nil || ok {
		t.Fatalf("expected no judge, got ok=%v err=%v", ok, err)
	}

	if err := repo.UpsertJudge(ctx, models.Judge{EventID: s.eventID, UserID: 7, Name: "Head judge", Weight: 2}); err != nil {
		t.Fatalf("UpsertJudge failed: %v", err)
	}
	if err := repo.UpsertJudge(ctx, models.Judge{EventID: s.eventID, UserID: 7, Name: "Head judge", Weight: 2.5}); err != nil {
		t.Fatalf("UpsertJudge update failed: %v", err)
	}

	weight, ok, err := repo.GetJudgeWeight(ctx, s.eventID, 7)
	if err != nil || !ok || weight != 2.5 {
		t.Errorf("expected weight 2.5, got %v ok=%v err=%v", weight, ok, err)
	}

	judges, _ := repo.ListJudges(ctx, s.eventID)
	if len(judges) != 1 {
		t.Errorf("expected 1 judge, got %d", len(judges))
	}
	if err := repo.DeleteJudge(ctx, s.eventID, 7); err != nil {
		t.Errorf("DeleteJudge failed: %v", err)
	}
	if err := repo.DeleteJudge(ctx, s.eventID, 7); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Vote Tests ====================

func TestCastBallot_WritesVotes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "1", 2: "2"})

	voted, err := repo.HasUserVoted(ctx, s.eventID, 1)
	if err != nil || !voted {
		t.Fatalf("expected user to have voted, got %v err=%v", voted, err)
	}
	has, _ := repo.HasBallot(ctx, s.eventID, 1, models.ScopeBallot)
	if !has {
		t.Error("expected ballot row")
	}

	votes, err := repo.GetUserVotes(ctx, s.eventID, 1)
	if err != nil {
		t.Fatalf("GetUserVotes failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(votes))
	}
	if *votes[0].Place != 1 || votes[0].EntryNumber != "1" || votes[0].FinalPoints != 3 {
		t.Errorf("unexpected first vote %+v", votes[0])
	}
	if votes[0].BallotID != "b1" {
		t.Errorf("expected ballot id b1, got %s", votes[0].BallotID)
	}
}

func TestCastBallot_DuplicateBallot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "1"})

	err := repo.CastBallot(ctx, models.Ballot{ID: "b2", EventID: s.eventID, UserID: 1, Scope: models.ScopeBallot},
		[]models.Vote{{EntryID: s.entries["2"], DivisionID: s.divisionP, Place: place(1), BasePoints: 3, WeightMultiplier: 1, FinalPoints: 3}})
	if err != ErrDuplicateBallot {
		t.Fatalf("expected ErrDuplicateBallot, got %v", err)
	}

	votes, _ := repo.GetUserVotes(ctx, s.eventID, 1)
	if len(votes) != 1 {
		t.Errorf("expected the first ballot's single vote only, got %d", len(votes))
	}
}

func TestCastBallot_RatingScopesAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	rate := func(id, scope string, entry int) error {
		return repo.CastBallot(ctx, models.Ballot{ID: id, EventID: s.eventID, UserID: 3, Scope: scope},
			[]models.Vote{{EntryID: entry, DivisionID: s.divisionP, BasePoints: 4, WeightMultiplier: 1, FinalPoints: 4}})
	}

	if err := rate("r1", "entry:1", s.entries["1"]); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	if err := rate("r2", "entry:2", s.entries["2"]); err != nil {
		t.Fatalf("rating a different entry failed: %v", err)
	}
	if err := rate("r3", "entry:1", s.entries["1"]); err != ErrDuplicateBallot {
		t.Errorf("expected ErrDuplicateBallot re-rating entry 1, got %v", err)
	}
}

func TestCastBallot_FailedVoteRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	// Second vote references a missing entry so the foreign key fails mid-ballot.
	err := repo.CastBallot(ctx, models.Ballot{ID: "b1", EventID: s.eventID, UserID: 1, Scope: models.ScopeBallot},
		[]models.Vote{
			{EntryID: s.entries["1"], DivisionID: s.divisionP, Place: place(1), BasePoints: 3, WeightMultiplier: 1, FinalPoints: 3},
			{EntryID: 9999, DivisionID: s.divisionP, Place: place(2), BasePoints: 2, WeightMultiplier: 1, FinalPoints: 2},
		})
	if err == nil {
		t.Fatal("expected foreign key failure")
	}

	voted, _ := repo.HasUserVoted(ctx, s.eventID, 1)
	if voted {
		t.Error("expected no votes after rollback")
	}
	has, _ := repo.HasBallot(ctx, s.eventID, 1, models.ScopeBallot)
	if has {
		t.Error("expected no ballot row after rollback")
	}
}

func TestBallotsUniqueIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	insert := `INSERT INTO ballots (id, event_id, user_id, scope) VALUES (?, ?, ?, ?)`
	if _, err := repo.db.ExecContext(ctx, insert, "x1", s.eventID, 5, models.ScopeBallot); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := repo.db.ExecContext(ctx, insert, "x2", s.eventID, 5, models.ScopeBallot)
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
	if isUniqueViolation(errors.New("other")) {
		t.Error("plain errors are not unique violations")
	}
}

// ==================== Summary / Results Tests ====================

func TestRefreshVoteSummaries_AggregatesLedger(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	for user := 1; user <= 3; user++ {
		castRanked(t, repo, s, "b"+string(rune('0'+user)), user, map[int]string{1: "1", 2: "2"})
	}
	castRanked(t, repo, s, "b4", 4, map[int]string{1: "2", 3: "1"})

	if err := repo.RefreshVoteSummaries(ctx, []int{s.entries["1"], s.entries["2"]}); err != nil {
		t.Fatalf("RefreshVoteSummaries failed: %v", err)
	}

	results, err := repo.ListResults(ctx, s.eventID, nil)
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.EntryNumber != "1" || first.TotalPoints != 10 || first.VoteCount != 4 {
		t.Errorf("unexpected leader %+v", first)
	}
	if first.FirstCount != 3 || first.SecondCount != 0 || first.ThirdCount != 1 {
		t.Errorf("unexpected place counts %+v", first)
	}
	if results[1].TotalPoints != 9 || results[1].FirstCount != 1 || results[1].SecondCount != 3 {
		t.Errorf("unexpected runner-up %+v", results[1])
	}
	if first.DivisionName != "Professional" {
		t.Errorf("expected division name, got %q", first.DivisionName)
	}
}

func TestListResults_DivisionFilterAndExcludesUnvoted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "101", 2: "3"})
	if err := repo.RebuildVoteSummaries(ctx, s.eventID); err != nil {
		t.Fatalf("RebuildVoteSummaries failed: %v", err)
	}

	amateur, err := repo.ListResults(ctx, s.eventID, &s.divisionA)
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(amateur) != 1 || amateur[0].EntryNumber != "101" {
		t.Errorf("unexpected amateur results %+v", amateur)
	}

	all, _ := repo.ListResults(ctx, s.eventID, nil)
	if len(all) != 2 {
		t.Errorf("expected only voted entries, got %d", len(all))
	}
}

func TestListResults_TieBreakByEntryNumber(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "3"})
	castRanked(t, repo, s, "b2", 2, map[int]string{1: "2"})
	_ = repo.RebuildVoteSummaries(ctx, s.eventID)

	results, _ := repo.ListResults(ctx, s.eventID, nil)
	if len(results) != 2 || results[0].EntryNumber != "2" || results[1].EntryNumber != "3" {
		t.Errorf("expected tie broken by entry number, got %+v", results)
	}
}

func TestRefreshVoteSummaries_Empty(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.RefreshVoteSummaries(context.Background(), nil); err != nil {
		t.Errorf("expected nil for no entries, got %v", err)
	}
}

func TestClearEventData(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)
	other := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "1"})
	castRanked(t, repo, other, "o1", 1, map[int]string{1: "1"})
	_ = repo.RebuildVoteSummaries(ctx, s.eventID)
	if _, err := repo.CreateParticipant(ctx, models.Participant{EventID: s.eventID, Name: "Ada"}); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}

	if err := repo.ClearEventData(ctx, s.eventID); err != nil {
		t.Fatalf("ClearEventData failed: %v", err)
	}

	stats, err := repo.GetEventStats(ctx, s.eventID)
	if err != nil {
		t.Fatalf("GetEventStats failed: %v", err)
	}
	if *stats != (models.EventStats{EventID: s.eventID}) {
		t.Errorf("expected all counts zero, got %+v", stats)
	}
	if _, err := repo.GetEvent(ctx, s.eventID); err != nil {
		t.Errorf("expected event to survive clearing, got %v", err)
	}

	otherStats, _ := repo.GetEventStats(ctx, other.eventID)
	if otherStats.Votes != 1 || otherStats.Entries != 4 {
		t.Errorf("expected other event untouched, got %+v", otherStats)
	}
}

func TestGetEventStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedEvent(t, repo)

	castRanked(t, repo, s, "b1", 1, map[int]string{1: "1", 2: "2"})
	castRanked(t, repo, s, "b2", 2, map[int]string{1: "2"})

	stats, err := repo.GetEventStats(ctx, s.eventID)
	if err != nil {
		t.Fatalf("GetEventStats failed: %v", err)
	}
	if stats.Ballots != 2 || stats.Votes != 3 || stats.Voters != 2 || stats.Entries != 4 || stats.Divisions != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
