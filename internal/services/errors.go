package services

import (
	"github.com/abrezinsky/eventvote/internal/errors"
)

// Ballot validation errors. Each carries a stable code; match with errors.Is.
var (
	ErrEventInactive     = errors.ValidationCode("event_inactive", "event is not active")
	ErrVotingNotOpen     = errors.ValidationCode("voting_not_open", "voting is not yet open")
	ErrVotingClosed      = errors.ValidationCode("voting_closed", "voting is closed")
	ErrWrongVotingType   = errors.ValidationCode("wrong_voting_type", "event does not use this voting type")
	ErrNoVotingType      = errors.ValidationCode("no_voting_type", "event has no voting type configured")
	ErrDuplicateBallot   = errors.ValidationCode("duplicate_ballot", "you have already voted in this event")
	ErrInvalidPlace      = errors.ValidationCode("invalid_place", "place must be a positive number")
	ErrEntryNotFound     = errors.ValidationCode("entry_not_found", "entry not found")
	ErrDuplicateEntry    = errors.ValidationCode("duplicate_entry", "the same entry was selected more than once")
	ErrEmptyBallot       = errors.ValidationCode("empty_ballot", "ballot has no selections")
	ErrTooManySelections = errors.ValidationCode("too_many_selections", "too many selections")
	ErrRatingOutOfRange  = errors.ValidationCode("rating_out_of_range", "rating is out of range")
)

// Lookup and administration errors
var (
	ErrEventNotFound      = errors.NotFound("event not found")
	ErrDivisionNotFound   = errors.NotFound("division not found")
	ErrVotingTypeNotFound = errors.NotFound("voting type not found")
	ErrTemplateNotFound   = errors.NotFound("template not found")
	ErrRecordNotFound     = errors.NotFound("record not found")
	ErrInUse              = errors.Conflict("record is still in use")
	ErrEntryNumberTaken   = errors.Conflict("entry number is already used in this event")
	ErrNameRequired       = errors.InvalidInput("name is required")
	ErrInvalidWindow      = errors.InvalidInput("voting_starts_at must not be after voting_ends_at")
	ErrInvalidVotingType  = errors.InvalidInput("invalid voting type")
	ErrInvalidWeight      = errors.InvalidInput("judge weight must be positive")
	ErrBaseURLMissing     = errors.InvalidInput("base_url not configured")
)
