package mock

import (
	"context"

	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CastBallotError = errors.New("database error")
//	svc := services.NewVotingService(log, mockRepo, nil)
//	_, err := svc.CastRankedVotes(ctx, eventID, voter, ballot)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Event Errors =====
	GetEventError           error
	ListEventsError         error
	ClearEventDataError     error
	GetEventStatsError      error
	SetEventVotingTypeError error
	GetEventVotingTypeError error
	ListDivisionsError      error
	ListActiveEntriesError  error

	// ===== Vote Errors =====
	HasUserVotedError   error
	HasBallotError      error
	CastBallotError     error
	GetUserVotesError   error
	GetJudgeWeightError error

	// ===== Results Errors =====
	RefreshVoteSummariesError error
	RebuildVoteSummariesError error
	ListResultsError          error

	// CastBallotCalls counts CastBallot invocations that reached the wrapper
	CastBallotCalls int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Event Methods =====

func (m *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	if m.GetEventError != nil {
		return nil, m.GetEventError
	}
	return m.FullRepository.GetEvent(ctx, id)
}

func (m *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	if m.ListEventsError != nil {
		return nil, m.ListEventsError
	}
	return m.FullRepository.ListEvents(ctx)
}

func (m *Repository) ClearEventData(ctx context.Context, eventID int) error {
	if m.ClearEventDataError != nil {
		return m.ClearEventDataError
	}
	return m.FullRepository.ClearEventData(ctx, eventID)
}

func (m *Repository) GetEventStats(ctx context.Context, eventID int) (*models.EventStats, error) {
	if m.GetEventStatsError != nil {
		return nil, m.GetEventStatsError
	}
	return m.FullRepository.GetEventStats(ctx, eventID)
}

func (m *Repository) SetEventVotingType(ctx context.Context, eventID, votingTypeID int) error {
	if m.SetEventVotingTypeError != nil {
		return m.SetEventVotingTypeError
	}
	return m.FullRepository.SetEventVotingType(ctx, eventID, votingTypeID)
}

func (m *Repository) GetEventVotingType(ctx context.Context, eventID int) (*models.VotingType, error) {
	if m.GetEventVotingTypeError != nil {
		return nil, m.GetEventVotingTypeError
	}
	return m.FullRepository.GetEventVotingType(ctx, eventID)
}

func (m *Repository) ListDivisions(ctx context.Context, eventID int) ([]models.Division, error) {
	if m.ListDivisionsError != nil {
		return nil, m.ListDivisionsError
	}
	return m.FullRepository.ListDivisions(ctx, eventID)
}

func (m *Repository) ListActiveEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	if m.ListActiveEntriesError != nil {
		return nil, m.ListActiveEntriesError
	}
	return m.FullRepository.ListActiveEntries(ctx, eventID)
}

// ===== Vote Methods =====

func (m *Repository) HasUserVoted(ctx context.Context, eventID, userID int) (bool, error) {
	if m.HasUserVotedError != nil {
		return false, m.HasUserVotedError
	}
	return m.FullRepository.HasUserVoted(ctx, eventID, userID)
}

func (m *Repository) HasBallot(ctx context.Context, eventID, userID int, scope string) (bool, error) {
	if m.HasBallotError != nil {
		return false, m.HasBallotError
	}
	return m.FullRepository.HasBallot(ctx, eventID, userID, scope)
}

func (m *Repository) CastBallot(ctx context.Context, ballot models.Ballot, votes []models.Vote) error {
	m.CastBallotCalls++
	if m.CastBallotError != nil {
		return m.CastBallotError
	}
	return m.FullRepository.CastBallot(ctx, ballot, votes)
}

func (m *Repository) GetUserVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error) {
	if m.GetUserVotesError != nil {
		return nil, m.GetUserVotesError
	}
	return m.FullRepository.GetUserVotes(ctx, eventID, userID)
}

func (m *Repository) GetJudgeWeight(ctx context.Context, eventID, userID int) (float64, bool, error) {
	if m.GetJudgeWeightError != nil {
		return 0, false, m.GetJudgeWeightError
	}
	return m.FullRepository.GetJudgeWeight(ctx, eventID, userID)
}

// ===== Results Methods =====

func (m *Repository) RefreshVoteSummaries(ctx context.Context, entryIDs []int) error {
	if m.RefreshVoteSummariesError != nil {
		return m.RefreshVoteSummariesError
	}
	return m.FullRepository.RefreshVoteSummaries(ctx, entryIDs)
}

func (m *Repository) RebuildVoteSummaries(ctx context.Context, eventID int) error {
	if m.RebuildVoteSummariesError != nil {
		return m.RebuildVoteSummariesError
	}
	return m.FullRepository.RebuildVoteSummaries(ctx, eventID)
}

func (m *Repository) ListResults(ctx context.Context, eventID int, divisionID *int) ([]models.Result, error) {
	if m.ListResultsError != nil {
		return nil, m.ListResultsError
	}
	return m.FullRepository.ListResults(ctx, eventID, divisionID)
}
