package services

import (
	"context"
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// Broadcaster defines the interface for pushing updates to connected clients
type Broadcaster interface {
	BroadcastResultsUpdated(eventID int, divisionIDs []int)
}

// LeaderboardCache stores computed leaderboards per (event, division, limit).
// Get reports the event's cache version it looked under; a board computed
// after a miss must be stored with Set under that same version so an
// invalidation in between discards it.
type LeaderboardCache interface {
	Get(ctx context.Context, eventID int, divisionID *int, limit int) (results []models.Result, version int64, ok bool, err error)
	Set(ctx context.Context, eventID int, version int64, divisionID *int, limit int, results []models.Result) error
	Invalidate(ctx context.Context, eventID int) error
}

// Recorder receives voting metrics
type Recorder interface {
	BallotCast(category string, votes int)
	BallotRejected(reason string)
	ObserveResults(view string, d time.Duration)
	LeaderboardCacheLookup(hit bool)
}

// VotingServicer defines the interface for vote casting
type VotingServicer interface {
	CastRankedVotes(ctx context.Context, eventID int, voter Voter, ballot models.RankedBallot) (bool, error)
	CastApprovalVotes(ctx context.Context, eventID int, voter Voter, entryIDs []int) (bool, error)
	CastRatingVote(ctx context.Context, eventID int, voter Voter, entryID int, rating float64) (bool, error)
	HasUserVoted(ctx context.Context, userID, eventID int) (bool, error)
	GetUserVotes(ctx context.Context, userID, eventID int) ([]models.Vote, error)
}

// ResultsServicer defines the interface for results aggregation
type ResultsServicer interface {
	GetResults(ctx context.Context, eventID int) ([]models.Result, error)
	GetResultsByDivision(ctx context.Context, eventID, divisionID int) ([]models.Result, error)
	GetLeaderboard(ctx context.Context, eventID int, divisionID *int, limit int) ([]models.Result, error)
	DetectTies(ctx context.Context, eventID int) ([]models.Tie, error)
	GetStats(ctx context.Context, eventID int) (*models.EventStats, error)
	RebuildSummaries(ctx context.Context, eventID int) error
}

// EventServicer defines the interface for event administration
type EventServicer interface {
	CreateTemplate(ctx context.Context, t models.EventTemplate) (int64, error)
	GetTemplate(ctx context.Context, id int) (*models.EventTemplate, error)
	ListTemplates(ctx context.Context) ([]models.EventTemplate, error)
	DeleteTemplate(ctx context.Context, id int) error
	CreateEvent(ctx context.Context, e models.Event) (int64, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) error
	DeleteEvent(ctx context.Context, id int) error
	SetVotingType(ctx context.Context, eventID, votingTypeID int) error
	ClearEventData(ctx context.Context, eventID int) error
	BallotQRCode(ctx context.Context, eventID int) ([]byte, error)
	CreateDivision(ctx context.Context, d models.Division) (int64, error)
	ListDivisions(ctx context.Context, eventID int) ([]models.Division, error)
	UpdateDivision(ctx context.Context, d models.Division) error
	DeleteDivision(ctx context.Context, eventID, id int) error
	CreateParticipant(ctx context.Context, p models.Participant) (int64, error)
	ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, eventID, id int) error
	CreateEntry(ctx context.Context, e models.Entry) (int64, error)
	ListEntries(ctx context.Context, eventID int) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, e models.Entry) error
	DeleteEntry(ctx context.Context, eventID, id int) error
	CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error)
	GetVotingType(ctx context.Context, id int) (*models.VotingType, error)
	ListVotingTypes(ctx context.Context) ([]models.VotingType, error)
	DeleteVotingType(ctx context.Context, id int) error
	UpsertJudge(ctx context.Context, j models.Judge) error
	ListJudges(ctx context.Context, eventID int) ([]models.Judge, error)
	DeleteJudge(ctx context.Context, eventID, userID int) error
}

// Ensure concrete types implement interfaces
var (
	_ VotingServicer  = (*VotingService)(nil)
	_ ResultsServicer = (*ResultsService)(nil)
	_ EventServicer   = (*EventService)(nil)
)

type nopRecorder struct{}

func (nopRecorder) BallotCast(string, int)               {}
func (nopRecorder) BallotRejected(string)                {}
func (nopRecorder) ObserveResults(string, time.Duration) {}
func (nopRecorder) LeaderboardCacheLookup(bool)          {}

type nopCache struct{}

func (nopCache) Get(context.Context, int, *int, int) ([]models.Result, int64, bool, error) {
	return nil, 0, false, nil
}
func (nopCache) Set(context.Context, int, int64, *int, int, []models.Result) error { return nil }
func (nopCache) Invalidate(context.Context, int) error                             { return nil }

func cacheOrNop(c LeaderboardCache) LeaderboardCache {
	if c == nil {
		return nopCache{}
	}
	return c
}
