package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/repository"
)

// EventServiceRepository defines the repository methods needed by EventService
type EventServiceRepository interface {
	repository.EventRepository
	repository.EntryRepository
	repository.VotingTypeRepository
}

// EventService handles event administration: templates, events, divisions,
// participants, entries, voting types and judges
type EventService struct {
	log     logger.Logger
	repo    EventServiceRepository
	cache   LeaderboardCache
	baseURL string
}

// NewEventService creates a new EventService. A nil cache disables caching.
func NewEventService(log logger.Logger, repo EventServiceRepository, cache LeaderboardCache, baseURL string) *EventService {
	return &EventService{
		log:     log.With("component", "events"),
		repo:    repo,
		cache:   cacheOrNop(cache),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ==================== Templates ====================

// CreateTemplate creates an event template
func (s *EventService) CreateTemplate(ctx context.Context, t models.EventTemplate) (int64, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return 0, ErrNameRequired.WithField("name")
	}
	if t.DefaultVotingTypeID != nil {
		if _, err := s.GetVotingType(ctx, *t.DefaultVotingTypeID); err != nil {
			return 0, err
		}
	}
	return s.repo.CreateTemplate(ctx, t)
}

// GetTemplate returns a template by ID
func (s *EventService) GetTemplate(ctx context.Context, id int) (*models.EventTemplate, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	return t, notFoundAs(err, ErrTemplateNotFound)
}

// ListTemplates returns all templates
func (s *EventService) ListTemplates(ctx context.Context) ([]models.EventTemplate, error) {
	return nonNil(s.repo.ListTemplates(ctx))
}

// DeleteTemplate deletes a template
func (s *EventService) DeleteTemplate(ctx context.Context, id int) error {
	return notFoundAs(s.repo.DeleteTemplate(ctx, id), ErrTemplateNotFound)
}

// ==================== Events ====================

// CreateEvent creates an event. When created from a template without an
// explicit voting type, the template's default voting type is used.
func (s *EventService) CreateEvent(ctx context.Context, e models.Event) (int64, error) {
	if err := validateEvent(&e); err != nil {
		return 0, err
	}
	if e.TemplateID != nil {
		t, err := s.GetTemplate(ctx, *e.TemplateID)
		if err != nil {
			return 0, err
		}
		if e.VotingTypeID == nil {
			e.VotingTypeID = t.DefaultVotingTypeID
		}
	}
	if e.VotingTypeID != nil {
		if _, err := s.GetVotingType(ctx, *e.VotingTypeID); err != nil {
			return 0, err
		}
	}

	id, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return 0, err
	}
	s.log.Info("Event created", "event_id", id, "name", e.Name)
	return id, nil
}

// GetEvent returns an event by ID
func (s *EventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	e, err := s.repo.GetEvent(ctx, id)
	return e, notFoundAs(err, ErrEventNotFound)
}

// ListEvents returns all events that are not deleted
func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return nonNil(s.repo.ListEvents(ctx))
}

// UpdateEvent updates an event's name, flags and voting window
func (s *EventService) UpdateEvent(ctx context.Context, e models.Event) error {
	if err := validateEvent(&e); err != nil {
		return err
	}
	if err := notFoundAs(s.repo.UpdateEvent(ctx, e), ErrEventNotFound); err != nil {
		return err
	}
	s.invalidate(ctx, e.ID)
	return nil
}

// DeleteEvent soft deletes an event
func (s *EventService) DeleteEvent(ctx context.Context, id int) error {
	if err := notFoundAs(s.repo.SoftDeleteEvent(ctx, id), ErrEventNotFound); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("Event deleted", "event_id", id)
	return nil
}

// SetVotingType assigns the voting type used by an event
func (s *EventService) SetVotingType(ctx context.Context, eventID, votingTypeID int) error {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	if _, err := s.GetVotingType(ctx, votingTypeID); err != nil {
		return err
	}
	return s.repo.SetEventVotingType(ctx, eventID, votingTypeID)
}

// ClearEventData deletes all votes, ballots, summaries, entries, participants
// and divisions of an event. The event and its settings are kept.
func (s *EventService) ClearEventData(ctx context.Context, eventID int) error {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.repo.ClearEventData(ctx, eventID); err != nil {
		return err
	}
	s.invalidate(ctx, eventID)
	s.log.Info("Event data cleared", "event_id", eventID)
	return nil
}

// BallotURL returns the public ballot URL of an event
func (s *EventService) BallotURL(eventID int) string {
	return fmt.Sprintf("%s/events/%d/ballot", s.baseURL, eventID)
}

// BallotQRCode returns a PNG QR code linking to the event's ballot
func (s *EventService) BallotQRCode(ctx context.Context, eventID int) ([]byte, error) {
	if s.baseURL == "" {
		return nil, ErrBaseURLMissing
	}
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return qrcode.Encode(s.BallotURL(eventID), qrcode.Medium, 256)
}

// ==================== Divisions ====================

// CreateDivision adds a division to an event
func (s *EventService) CreateDivision(ctx context.Context, d models.Division) (int64, error) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return 0, ErrNameRequired.WithField("name")
	}
	if d.Code == "" {
		return 0, ErrNameRequired.WithField("code").WithMessage("code is required")
	}
	if _, err := s.GetEvent(ctx, d.EventID); err != nil {
		return 0, err
	}
	return s.repo.CreateDivision(ctx, d)
}

// ListDivisions returns an event's divisions in display order
func (s *EventService) ListDivisions(ctx context.Context, eventID int) ([]models.Division, error) {
	return nonNil(s.repo.ListDivisions(ctx, eventID))
}

// UpdateDivision updates a division
func (s *EventService) UpdateDivision(ctx context.Context, d models.Division) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrNameRequired.WithField("name")
	}
	if err := notFoundAs(s.repo.UpdateDivision(ctx, d), ErrDivisionNotFound); err != nil {
		return err
	}
	s.invalidate(ctx, d.EventID)
	return nil
}

// DeleteDivision deletes a division that has no entries
func (s *EventService) DeleteDivision(ctx context.Context, eventID, id int) error {
	err := s.repo.DeleteDivision(ctx, eventID, id)
	if err == repository.ErrInUse {
		return ErrInUse.WithMessage("division still has entries")
	}
	return notFoundAs(err, ErrDivisionNotFound)
}

// ==================== Participants ====================

// CreateParticipant registers a participant
func (s *EventService) CreateParticipant(ctx context.Context, p models.Participant) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return 0, ErrNameRequired.WithField("name")
	}
	if _, err := s.GetEvent(ctx, p.EventID); err != nil {
		return 0, err
	}
	return s.repo.CreateParticipant(ctx, p)
}

// ListParticipants returns an event's participants
func (s *EventService) ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error) {
	return nonNil(s.repo.ListParticipants(ctx, eventID))
}

// DeleteParticipant removes a participant
func (s *EventService) DeleteParticipant(ctx context.Context, eventID, id int) error {
	err := s.repo.DeleteParticipant(ctx, eventID, id)
	if err == repository.ErrInUse {
		return ErrInUse.WithMessage("participant still has entries")
	}
	return notFoundAs(err, ErrRecordNotFound)
}

// ==================== Entries ====================

// CreateEntry adds an entry to a division of the event
func (s *EventService) CreateEntry(ctx context.Context, e models.Entry) (int64, error) {
	if err := s.validateEntry(ctx, &e); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateEntry(ctx, e)
	if err == repository.ErrDuplicateEntryNumber {
		return 0, ErrEntryNumberTaken.WithField("entry_number")
	}
	return id, err
}

// ListEntries returns all entries of an event
func (s *EventService) ListEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	return nonNil(s.repo.ListEntries(ctx, eventID))
}

// UpdateEntry updates an entry
func (s *EventService) UpdateEntry(ctx context.Context, e models.Entry) error {
	if err := s.validateEntry(ctx, &e); err != nil {
		return err
	}
	err := s.repo.UpdateEntry(ctx, e)
	if err == repository.ErrDuplicateEntryNumber {
		return ErrEntryNumberTaken.WithField("entry_number")
	}
	if err := notFoundAs(err, ErrRecordNotFound); err != nil {
		return err
	}
	s.invalidate(ctx, e.EventID)
	return nil
}

// DeleteEntry deletes an entry that has received no votes
func (s *EventService) DeleteEntry(ctx context.Context, eventID, id int) error {
	err := s.repo.DeleteEntry(ctx, eventID, id)
	if err == repository.ErrInUse {
		return ErrInUse.WithMessage("entry has votes")
	}
	return notFoundAs(err, ErrRecordNotFound)
}

func (s *EventService) validateEntry(ctx context.Context, e *models.Entry) error {
	e.EntryNumber = NormalizeEntryNumber(e.EntryNumber)
	e.Name = strings.TrimSpace(e.Name)
	if e.EntryNumber == "" {
		return ErrNameRequired.WithField("entry_number").WithMessage("entry number is required")
	}
	divisions, err := s.repo.ListDivisions(ctx, e.EventID)
	if err != nil {
		return err
	}
	for _, d := range divisions {
		if d.ID == e.DivisionID {
			return nil
		}
	}
	return ErrDivisionNotFound.WithField("division_id")
}

// ==================== Voting Types ====================

// CreateVotingType validates and creates a voting type
func (s *EventService) CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error) {
	if err := validateVotingType(&vt); err != nil {
		return 0, err
	}
	return s.repo.CreateVotingType(ctx, vt)
}

// GetVotingType returns a voting type by ID
func (s *EventService) GetVotingType(ctx context.Context, id int) (*models.VotingType, error) {
	vt, err := s.repo.GetVotingType(ctx, id)
	return vt, notFoundAs(err, ErrVotingTypeNotFound)
}

// ListVotingTypes returns all voting types
func (s *EventService) ListVotingTypes(ctx context.Context) ([]models.VotingType, error) {
	return nonNil(s.repo.ListVotingTypes(ctx))
}

// DeleteVotingType deletes a voting type no event uses
func (s *EventService) DeleteVotingType(ctx context.Context, id int) error {
	err := s.repo.DeleteVotingType(ctx, id)
	if err == repository.ErrInUse {
		return ErrInUse.WithMessage("voting type is used by an event")
	}
	return notFoundAs(err, ErrVotingTypeNotFound)
}

func validateVotingType(vt *models.VotingType) error {
	vt.Name = strings.TrimSpace(vt.Name)
	if vt.Name == "" {
		return ErrNameRequired.WithField("name")
	}
	if !vt.Category.Valid() {
		return ErrInvalidVotingType.WithField("category").WithMessagef("unknown category %q", vt.Category)
	}

	switch {
	case vt.Category.UsesPlaces():
		if len(vt.Places) == 0 {
			return ErrInvalidVotingType.WithField("places").WithMessage("at least one place is required")
		}
		seen := make(map[int]bool, len(vt.Places))
		for _, pc := range vt.Places {
			if pc.Place < 1 {
				return ErrInvalidVotingType.WithField("places").WithMessage("places must be positive")
			}
			if seen[pc.Place] {
				return ErrInvalidVotingType.WithField("places").WithMessagef("place %d is listed twice", pc.Place)
			}
			seen[pc.Place] = true
		}
	case vt.Category == models.CategoryApproval:
		if vt.MaxSelections < 0 {
			return ErrInvalidVotingType.WithField("max_selections").WithMessage("max_selections must not be negative")
		}
	case vt.Category == models.CategoryRating:
		if vt.MinRating > vt.MaxRating {
			return ErrInvalidVotingType.WithField("min_rating").WithMessage("min_rating must not exceed max_rating")
		}
	}
	return nil
}

// ==================== Judges ====================

// UpsertJudge creates or updates a judge for a weighted event
func (s *EventService) UpsertJudge(ctx context.Context, j models.Judge) error {
	if j.Weight <= 0 {
		return ErrInvalidWeight.WithField("weight")
	}
	if _, err := s.GetEvent(ctx, j.EventID); err != nil {
		return err
	}
	return s.repo.UpsertJudge(ctx, j)
}

// ListJudges returns an event's judges
func (s *EventService) ListJudges(ctx context.Context, eventID int) ([]models.Judge, error) {
	return nonNil(s.repo.ListJudges(ctx, eventID))
}

// DeleteJudge removes a judge
func (s *EventService) DeleteJudge(ctx context.Context, eventID, userID int) error {
	return notFoundAs(s.repo.DeleteJudge(ctx, eventID, userID), ErrRecordNotFound)
}

// ==================== Helpers ====================

func (s *EventService) invalidate(ctx context.Context, eventID int) {
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", "event_id", eventID, "error", err)
	}
}

func validateEvent(e *models.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return ErrNameRequired.WithField("name")
	}
	if e.VotingStartsAt != nil && e.VotingEndsAt != nil && e.VotingStartsAt.After(*e.VotingEndsAt) {
		return ErrInvalidWindow.WithField("voting_starts_at")
	}
	return nil
}

// notFoundAs maps repository.ErrNotFound to a service error
func notFoundAs(err, notFound error) error {
	if err == repository.ErrNotFound {
		return notFound
	}
	return err
}

func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
