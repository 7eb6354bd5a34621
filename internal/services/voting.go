package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/eventvote/internal/errors"
	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/repository"
)

// VotingServiceRepository defines the repository methods needed by VotingService
type VotingServiceRepository interface {
	repository.VoteRepository
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetEventVotingType(ctx context.Context, eventID int) (*models.VotingType, error)
	ListDivisions(ctx context.Context, eventID int) ([]models.Division, error)
	ListActiveEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	GetJudgeWeight(ctx context.Context, eventID, userID int) (float64, bool, error)
	RefreshVoteSummaries(ctx context.Context, entryIDs []int) error
}

// Voter identifies who is casting a ballot. It is passed explicitly by the
// transport layer rather than read from request state.
type Voter struct {
	UserID int
	IP     string
}

// VotingService handles vote casting business logic
type VotingService struct {
	log         logger.Logger
	repo        VotingServiceRepository
	cache       LeaderboardCache
	broadcaster Broadcaster
	metrics     Recorder
	now         func() time.Time
	newID       func() string
}

// NewVotingService creates a new VotingService. A nil cache disables caching.
func NewVotingService(log logger.Logger, repo VotingServiceRepository, cache LeaderboardCache) *VotingService {
	return &VotingService{
		log:     log.With("component", "voting"),
		repo:    repo,
		cache:   cacheOrNop(cache),
		metrics: nopRecorder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetBroadcaster sets the broadcaster notified after each accepted ballot
func (s *VotingService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetMetrics sets the metrics recorder
func (s *VotingService) SetMetrics(m Recorder) {
	if m != nil {
		s.metrics = m
	}
}

// SetClock replaces the time source used for voting window checks
func (s *VotingService) SetClock(now func() time.Time) {
	s.now = now
}

// placedSelection is one validated (division key, place, entry) triple of a ranked ballot
type placedSelection struct {
	field string
	key   string
	place int
	token string
	entry models.Entry
}

// CastRankedVotes validates and records a ranked or weighted ballot. Checks run
// in a fixed order and the first failure is returned: event active, voting
// window, voting type, duplicate ballot, place numbers, entry resolution,
// repeated entries, empty ballot. All votes are written in one transaction.
// The bool result is true on success; failures are reported only through err.
func (s *VotingService) CastRankedVotes(ctx context.Context, eventID int, voter Voter, ballot models.RankedBallot) (ok bool, err error) {
	defer s.recordRejection(&err, eventID, voter)

	event, vt, err := s.openEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if !vt.Category.UsesPlaces() {
		return false, ErrWrongVotingType.WithMessagef("event uses %s voting", vt.Category)
	}
	if err := s.checkNotVoted(ctx, eventID, voter.UserID); err != nil {
		return false, err
	}

	selections, err := parsePlaces(ballot)
	if err != nil {
		return false, err
	}

	resolver, err := s.resolver(ctx, eventID)
	if err != nil {
		return false, err
	}
	for i := range selections {
		sel := &selections[i]
		res := resolver.Resolve(sel.key, sel.token)
		if !res.Found() {
			return false, ErrEntryNotFound.WithField(sel.field).
				WithMessagef("entry %q not found in division %s", sel.token, sel.key)
		}
		sel.entry = res.Entry
	}

	seen := make(map[int]string, len(selections))
	for _, sel := range selections {
		if prev, dup := seen[sel.entry.ID]; dup {
			return false, ErrDuplicateEntry.WithField(sel.field).
				WithMessagef("entry %s is selected for both %s and %s", sel.entry.EntryNumber, prev, sel.field)
		}
		seen[sel.entry.ID] = sel.field
	}

	if len(selections) == 0 {
		return false, ErrEmptyBallot
	}

	weight := 1.0
	if vt.Category == models.CategoryWeighted {
		if weight, err = s.judgeWeight(ctx, eventID, voter.UserID); err != nil {
			return false, err
		}
	}

	votes := make([]models.Vote, 0, len(selections))
	for _, sel := range selections {
		base := vt.PointsForPlace(sel.place)
		place := sel.place
		votes = append(votes, models.Vote{
			EntryID:          sel.entry.ID,
			DivisionID:       sel.entry.DivisionID,
			Place:            &place,
			BasePoints:       base,
			WeightMultiplier: weight,
			FinalPoints:      base * weight,
			VoterIP:          voter.IP,
		})
	}

	if err := s.cast(ctx, event, voter, models.ScopeBallot, votes); err != nil {
		return false, err
	}
	s.metrics.BallotCast(string(vt.Category), len(votes))
	return true, nil
}

// CastApprovalVotes records an approval ballot: each listed entry receives the
// voting type's points_per_vote.
func (s *VotingService) CastApprovalVotes(ctx context.Context, eventID int, voter Voter, entryIDs []int) (ok bool, err error) {
	defer s.recordRejection(&err, eventID, voter)

	event, vt, err := s.openEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if vt.Category != models.CategoryApproval {
		return false, ErrWrongVotingType.WithMessagef("event uses %s voting", vt.Category)
	}
	if err := s.checkNotVoted(ctx, eventID, voter.UserID); err != nil {
		return false, err
	}
	if vt.MaxSelections > 0 && len(entryIDs) > vt.MaxSelections {
		return false, ErrTooManySelections.WithMessagef("at most %d selections are allowed, got %d", vt.MaxSelections, len(entryIDs))
	}

	entries, err := s.activeEntries(ctx, eventID)
	if err != nil {
		return false, err
	}
	for i, id := range entryIDs {
		if _, ok := entries[id]; !ok {
			return false, ErrEntryNotFound.WithField(fmt.Sprintf("entry_ids[%d]", i)).
				WithMessagef("entry %d not found", id)
		}
	}
	seen := make(map[int]int, len(entryIDs))
	for i, id := range entryIDs {
		if prev, dup := seen[id]; dup {
			return false, ErrDuplicateEntry.WithField(fmt.Sprintf("entry_ids[%d]", i)).
				WithMessagef("entry %d is listed at positions %d and %d", id, prev, i)
		}
		seen[id] = i
	}
	if len(entryIDs) == 0 {
		return false, ErrEmptyBallot
	}

	points := vt.PointsPerVote
	if points <= 0 {
		points = 1
	}
	votes := make([]models.Vote, 0, len(entryIDs))
	for _, id := range entryIDs {
		votes = append(votes, models.Vote{
			EntryID:          id,
			DivisionID:       entries[id].DivisionID,
			BasePoints:       points,
			WeightMultiplier: 1,
			FinalPoints:      points,
			VoterIP:          voter.IP,
		})
	}

	if err := s.cast(ctx, event, voter, models.ScopeBallot, votes); err != nil {
		return false, err
	}
	s.metrics.BallotCast(string(vt.Category), len(votes))
	return true, nil
}

// CastRatingVote records one rating for one entry. Each entry is its own
// duplicate scope, so a voter may rate every entry once.
func (s *VotingService) CastRatingVote(ctx context.Context, eventID int, voter Voter, entryID int, rating float64) (ok bool, err error) {
	defer s.recordRejection(&err, eventID, voter)

	event, vt, err := s.openEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if vt.Category != models.CategoryRating {
		return false, ErrWrongVotingType.WithMessagef("event uses %s voting", vt.Category)
	}

	scope := ratingScope(entryID)
	exists, err := s.repo.HasBallot(ctx, eventID, voter.UserID, scope)
	if err != nil {
		return false, err
	}
	if exists {
		return false, ErrDuplicateBallot.WithMessage("you have already rated this entry")
	}

	if math.IsNaN(rating) || rating < vt.MinRating || rating > vt.MaxRating {
		return false, ErrRatingOutOfRange.WithField("rating").
			WithMessagef("rating must be between %g and %g", vt.MinRating, vt.MaxRating)
	}

	entries, err := s.activeEntries(ctx, eventID)
	if err != nil {
		return false, err
	}
	entry, found := entries[entryID]
	if !found {
		return false, ErrEntryNotFound.WithField("entry_id").WithMessagef("entry %d not found", entryID)
	}

	vote := models.Vote{
		EntryID:          entry.ID,
		DivisionID:       entry.DivisionID,
		BasePoints:       rating,
		WeightMultiplier: 1,
		FinalPoints:      rating,
		VoterIP:          voter.IP,
	}
	if err := s.cast(ctx, event, voter, scope, []models.Vote{vote}); err != nil {
		return false, err
	}
	s.metrics.BallotCast(string(vt.Category), 1)
	return true, nil
}

// HasUserVoted reports whether the user has any vote in the event. Ballot
// casting applies the same rule before accepting a whole ballot.
func (s *VotingService) HasUserVoted(ctx context.Context, userID, eventID int) (bool, error) {
	return s.repo.HasUserVoted(ctx, eventID, userID)
}

// GetUserVotes returns the user's own votes for an event
func (s *VotingService) GetUserVotes(ctx context.Context, userID, eventID int) ([]models.Vote, error) {
	votes, err := s.repo.GetUserVotes(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []models.Vote{}
	}
	return votes, nil
}

// openEvent loads the event and its voting type and checks that voting is open
func (s *VotingService) openEvent(ctx context.Context, eventID int) (*models.Event, *models.VotingType, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err == repository.ErrNotFound {
		return nil, nil, ErrEventNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !event.IsActive {
		return nil, nil, ErrEventInactive
	}

	switch event.WindowAt(s.now()) {
	case models.WindowNotYetOpen:
		return nil, nil, ErrVotingNotOpen.WithMessagef("voting opens at %s", event.VotingStartsAt.Format(time.RFC3339))
	case models.WindowClosed:
		return nil, nil, ErrVotingClosed.WithMessagef("voting closed at %s", event.VotingEndsAt.Format(time.RFC3339))
	}

	vt, err := s.repo.GetEventVotingType(ctx, eventID)
	if err == repository.ErrNotFound {
		return nil, nil, ErrNoVotingType
	}
	if err != nil {
		return nil, nil, err
	}
	return event, vt, nil
}

func (s *VotingService) checkNotVoted(ctx context.Context, eventID, userID int) error {
	voted, err := s.repo.HasUserVoted(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if voted {
		return ErrDuplicateBallot
	}
	return nil
}

func (s *VotingService) resolver(ctx context.Context, eventID int) (*EntryResolver, error) {
	divisions, err := s.repo.ListDivisions(ctx, eventID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListActiveEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return NewEntryResolver(divisions, entries), nil
}

func (s *VotingService) activeEntries(ctx context.Context, eventID int) (map[int]models.Entry, error) {
	divisions, err := s.repo.ListDivisions(ctx, eventID)
	if err != nil {
		return nil, err
	}
	activeDivision := make(map[int]bool, len(divisions))
	for _, d := range divisions {
		activeDivision[d.ID] = d.IsActive
	}

	entries, err := s.repo.ListActiveEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.Entry, len(entries))
	for _, e := range entries {
		if activeDivision[e.DivisionID] {
			byID[e.ID] = e
		}
	}
	return byID, nil
}

func (s *VotingService) judgeWeight(ctx context.Context, eventID, userID int) (float64, error) {
	weight, ok, err := s.repo.GetJudgeWeight(ctx, eventID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	return weight, nil
}

// cast writes the ballot and then refreshes everything derived from it.
// Failures after the commit are logged; the ballot stands.
func (s *VotingService) cast(ctx context.Context, event *models.Event, voter Voter, scope string, votes []models.Vote) error {
	ballot := models.Ballot{
		ID:        s.newID(),
		EventID:   event.ID,
		UserID:    voter.UserID,
		Scope:     scope,
		CreatedAt: s.now().UTC(),
	}

	err := s.repo.CastBallot(ctx, ballot, votes)
	if err == repository.ErrDuplicateBallot {
		if scope == models.ScopeBallot {
			return ErrDuplicateBallot
		}
		return ErrDuplicateBallot.WithMessage("you have already rated this entry")
	}
	if err != nil {
		return err
	}

	entryIDs, divisionIDs := touched(votes)
	if err := s.repo.RefreshVoteSummaries(ctx, entryIDs); err != nil {
		s.log.Warn("Failed to refresh vote summaries", "event_id", event.ID, "error", err)
	}
	if err := s.cache.Invalidate(ctx, event.ID); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", "event_id", event.ID, "error", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastResultsUpdated(event.ID, divisionIDs)
	}

	s.log.Info("Ballot accepted", "event_id", event.ID, "user_id", voter.UserID, "ballot_id", ballot.ID, "scope", scope, "votes", len(votes))
	return nil
}

func (s *VotingService) recordRejection(errp *error, eventID int, voter Voter) {
	if *errp == nil {
		return
	}
	code := errors.CodeOf(*errp)
	if code == "" {
		return
	}
	s.metrics.BallotRejected(code)
	s.log.Debug("Ballot rejected", "event_id", eventID, "user_id", voter.UserID, "reason", code, "error", *errp)
}

// parsePlaces flattens a ranked ballot into selections ordered by division key
// then place. Empty tokens are skipped; place keys must be positive integers.
func parsePlaces(ballot models.RankedBallot) ([]placedSelection, error) {
	keys := make([]string, 0, len(ballot))
	for k := range ballot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var selections []placedSelection
	for _, key := range keys {
		places := ballot[key]
		placeKeys := make([]string, 0, len(places))
		for p := range places {
			placeKeys = append(placeKeys, p)
		}
		sort.Strings(placeKeys)

		var parsed []placedSelection
		for _, p := range placeKeys {
			field := key + "." + p
			place, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || place < 1 {
				return nil, ErrInvalidPlace.WithField(field).WithMessagef("place %q must be a positive number", p)
			}
			token := strings.TrimSpace(places[p])
			if token == "" {
				continue
			}
			parsed = append(parsed, placedSelection{field: field, key: key, place: place, token: token})
		}
		sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].place < parsed[j].place })
		selections = append(selections, parsed...)
	}
	return selections, nil
}

func touched(votes []models.Vote) (entryIDs, divisionIDs []int) {
	seenEntry := make(map[int]bool, len(votes))
	seenDivision := make(map[int]bool)
	for _, v := range votes {
		if !seenEntry[v.EntryID] {
			seenEntry[v.EntryID] = true
			entryIDs = append(entryIDs, v.EntryID)
		}
		if !seenDivision[v.DivisionID] {
			seenDivision[v.DivisionID] = true
			divisionIDs = append(divisionIDs, v.DivisionID)
		}
	}
	sort.Ints(divisionIDs)
	return entryIDs, divisionIDs
}

func ratingScope(entryID int) string {
	return "entry:" + strconv.Itoa(entryID)
}
