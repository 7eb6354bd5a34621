package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/repository"
)

// DefaultLeaderboardLimit is used when neither the caller nor config sets a limit
const DefaultLeaderboardLimit = 10

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.ResultsRepository
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	GetEventStats(ctx context.Context, eventID int) (*models.EventStats, error)
	ListDivisions(ctx context.Context, eventID int) ([]models.Division, error)
}

// ResultsService handles results and statistics business logic
type ResultsService struct {
	log          logger.Logger
	repo         ResultsServiceRepository
	cache        LeaderboardCache
	metrics      Recorder
	defaultLimit int
}

// NewResultsService creates a new ResultsService. A nil cache disables caching.
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, cache LeaderboardCache, defaultLimit int) *ResultsService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLeaderboardLimit
	}
	return &ResultsService{
		log:          log.With("component", "results"),
		repo:         repo,
		cache:        cacheOrNop(cache),
		metrics:      nopRecorder{},
		defaultLimit: defaultLimit,
	}
}

// SetMetrics sets the metrics recorder
func (s *ResultsService) SetMetrics(m Recorder) {
	if m != nil {
		s.metrics = m
	}
}

// GetResults returns every entry of the event with at least one vote, ranked
// across all divisions
func (s *ResultsService) GetResults(ctx context.Context, eventID int) ([]models.Result, error) {
	defer s.observe("event", time.Now())

	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ranked(ctx, eventID, nil)
}

// GetResultsByDivision returns the ranked results of one division of the event
func (s *ResultsService) GetResultsByDivision(ctx context.Context, eventID, divisionID int) ([]models.Result, error) {
	defer s.observe("division", time.Now())

	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.requireDivision(ctx, eventID, divisionID); err != nil {
		return nil, err
	}
	return s.ranked(ctx, eventID, &divisionID)
}

// GetLeaderboard returns the top limit results, optionally for one division.
// A limit of zero or less uses the configured default. Leaderboards are
// served from the cache when one is configured; cache failures fall back to
// the database. The board is cached under the version seen before the
// database read, so a ballot committed meanwhile is never hidden.
func (s *ResultsService) GetLeaderboard(ctx context.Context, eventID int, divisionID *int, limit int) ([]models.Result, error) {
	defer s.observe("leaderboard", time.Now())

	if limit <= 0 {
		limit = s.defaultLimit
	}

	cached, version, ok, err := s.cache.Get(ctx, eventID, divisionID, limit)
	cacheable := err == nil
	if err != nil {
		s.log.Warn("Leaderboard cache read failed", "event_id", eventID, "error", err)
	} else {
		s.metrics.LeaderboardCacheLookup(ok)
		if ok {
			return cached, nil
		}
	}

	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if divisionID != nil {
		if err := s.requireDivision(ctx, eventID, *divisionID); err != nil {
			return nil, err
		}
	}

	results, err := s.ranked(ctx, eventID, divisionID)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if cacheable {
		if err := s.cache.Set(ctx, eventID, version, divisionID, limit, results); err != nil {
			s.log.Warn("Leaderboard cache write failed", "event_id", eventID, "error", err)
		}
	}
	return results, nil
}

// DetectTies finds divisions where more than one entry shares the leading total
func (s *ResultsService) DetectTies(ctx context.Context, eventID int) ([]models.Tie, error) {
	results, err := s.GetResults(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byDivision := make(map[int][]models.Result)
	var order []int
	for _, r := range results {
		if _, seen := byDivision[r.DivisionID]; !seen {
			order = append(order, r.DivisionID)
		}
		byDivision[r.DivisionID] = append(byDivision[r.DivisionID], r)
	}

	ties := []models.Tie{}
	for _, divisionID := range order {
		rows := byDivision[divisionID]
		if len(rows) < 2 {
			continue
		}
		top := rows[0].TotalPoints
		var tied []models.Result
		for _, r := range rows {
			if r.TotalPoints != top {
				break
			}
			tied = append(tied, r)
		}
		if len(tied) > 1 {
			ties = append(ties, models.Tie{
				DivisionID:   divisionID,
				DivisionName: rows[0].DivisionName,
				TotalPoints:  top,
				Entries:      tied,
			})
		}
	}
	sort.SliceStable(ties, func(i, j int) bool { return ties[i].DivisionID < ties[j].DivisionID })
	return ties, nil
}

// GetStats returns ballot, vote and voter counts for the event
func (s *ResultsService) GetStats(ctx context.Context, eventID int) (*models.EventStats, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.GetEventStats(ctx, eventID)
}

// RebuildSummaries recomputes every vote summary of the event from the vote ledger
func (s *ResultsService) RebuildSummaries(ctx context.Context, eventID int) error {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.repo.RebuildVoteSummaries(ctx, eventID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", "event_id", eventID, "error", err)
	}
	s.log.Info("Vote summaries rebuilt", "event_id", eventID)
	return nil
}

func (s *ResultsService) ranked(ctx context.Context, eventID int, divisionID *int) ([]models.Result, error) {
	results, err := s.repo.ListResults(ctx, eventID, divisionID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.Result{}
	}
	SortResults(results)
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func (s *ResultsService) requireEvent(ctx context.Context, eventID int) error {
	_, err := s.repo.GetEvent(ctx, eventID)
	if err == repository.ErrNotFound {
		return ErrEventNotFound
	}
	return err
}

func (s *ResultsService) requireDivision(ctx context.Context, eventID, divisionID int) error {
	divisions, err := s.repo.ListDivisions(ctx, eventID)
	if err != nil {
		return err
	}
	for _, d := range divisions {
		if d.ID == divisionID {
			return nil
		}
	}
	return ErrDivisionNotFound
}

func (s *ResultsService) observe(view string, start time.Time) {
	s.metrics.ObserveResults(view, time.Since(start))
}

// SortResults orders results by total points descending, then entry number
// ascending (numbers compare numerically, "9" before "10"), then entry ID.
func SortResults(results []models.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if c := compareEntryNumbers(a.EntryNumber, b.EntryNumber); c != 0 {
			return c < 0
		}
		return a.EntryID < b.EntryID
	})
}

// compareEntryNumbers puts numeric entry numbers first, in numeric order,
// followed by the rest in case-insensitive lexical order
func compareEntryNumbers(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}
