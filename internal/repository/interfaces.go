package repository

import (
	"context"

	"github.com/abrezinsky/eventvote/internal/models"
)

// EventRepository defines event and template data operations
type EventRepository interface {
	CreateTemplate(ctx context.Context, t models.EventTemplate) (int64, error)
	GetTemplate(ctx context.Context, id int) (*models.EventTemplate, error)
	ListTemplates(ctx context.Context) ([]models.EventTemplate, error)
	DeleteTemplate(ctx context.Context, id int) error
	CreateEvent(ctx context.Context, e models.Event) (int64, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) error
	SoftDeleteEvent(ctx context.Context, id int) error
	SetEventVotingType(ctx context.Context, eventID, votingTypeID int) error
	ClearEventData(ctx context.Context, eventID int) error
	GetEventStats(ctx context.Context, eventID int) (*models.EventStats, error)
}

// EntryRepository defines division, participant and entry data operations
type EntryRepository interface {
	CreateDivision(ctx context.Context, d models.Division) (int64, error)
	ListDivisions(ctx context.Context, eventID int) ([]models.Division, error)
	UpdateDivision(ctx context.Context, d models.Division) error
	DeleteDivision(ctx context.Context, eventID, id int) error
	CreateParticipant(ctx context.Context, p models.Participant) (int64, error)
	ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, eventID, id int) error
	CreateEntry(ctx context.Context, e models.Entry) (int64, error)
	GetEntry(ctx context.Context, id int) (*models.Entry, error)
	ListEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	ListActiveEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, e models.Entry) error
	DeleteEntry(ctx context.Context, eventID, id int) error
}

// VotingTypeRepository defines voting type and judge data operations
type VotingTypeRepository interface {
	CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error)
	GetVotingType(ctx context.Context, id int) (*models.VotingType, error)
	ListVotingTypes(ctx context.Context) ([]models.VotingType, error)
	GetEventVotingType(ctx context.Context, eventID int) (*models.VotingType, error)
	DeleteVotingType(ctx context.Context, id int) error
	UpsertJudge(ctx context.Context, j models.Judge) error
	ListJudges(ctx context.Context, eventID int) ([]models.Judge, error)
	DeleteJudge(ctx context.Context, eventID, userID int) error
	GetJudgeWeight(ctx context.Context, eventID, userID int) (float64, bool, error)
}

// VoteRepository defines vote ledger data operations
type VoteRepository interface {
	HasUserVoted(ctx context.Context, eventID, userID int) (bool, error)
	HasBallot(ctx context.Context, eventID, userID int, scope string) (bool, error)
	CastBallot(ctx context.Context, ballot models.Ballot, votes []models.Vote) error
	GetUserVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error)
}

// ResultsRepository defines vote summary and results data operations
type ResultsRepository interface {
	RefreshVoteSummaries(ctx context.Context, entryIDs []int) error
	RebuildVoteSummaries(ctx context.Context, eventID int) error
	ListResults(ctx context.Context, eventID int, divisionID *int) ([]models.Result, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	EventRepository
	EntryRepository
	VotingTypeRepository
	VoteRepository
	ResultsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
