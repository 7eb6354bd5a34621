package handlers

import (
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ApprovalRequest is the request body for an approval ballot
type ApprovalRequest struct {
	EntryIDs []int `json:"entry_ids"`
}

// RatingRequest is the request body for rating one entry
type RatingRequest struct {
	EntryID int     `json:"entry_id"`
	Rating  float64 `json:"rating"`
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// EventRequest is the request body for creating or updating an event
type EventRequest struct {
	Name           string     `json:"name"`
	IsActive       bool       `json:"is_active"`
	IsPublic       bool       `json:"is_public"`
	VotingStartsAt *time.Time `json:"voting_starts_at"`
	VotingEndsAt   *time.Time `json:"voting_ends_at"`
	TemplateID     *int       `json:"template_id"`
}

func (req EventRequest) toModel(id int) models.Event {
	return models.Event{
		ID:             id,
		Name:           req.Name,
		IsActive:       req.IsActive,
		IsPublic:       req.IsPublic,
		VotingStartsAt: req.VotingStartsAt,
		VotingEndsAt:   req.VotingEndsAt,
		TemplateID:     req.TemplateID,
	}
}

// SetVotingTypeRequest is the request body for attaching a voting type to an event
type SetVotingTypeRequest struct {
	VotingTypeID int `json:"voting_type_id"`
}

// DivisionRequest is the request body for creating or updating a division
type DivisionRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

// ParticipantRequest is the request body for registering a participant
type ParticipantRequest struct {
	DivisionID *int   `json:"division_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// EntryRequest is the request body for creating or updating an entry
type EntryRequest struct {
	DivisionID    int    `json:"division_id"`
	ParticipantID *int   `json:"participant_id"`
	EntryNumber   string `json:"entry_number"`
	Name          string `json:"name"`
	IsActive      *bool  `json:"is_active"`
}

func (req EntryRequest) toModel(id, eventID int) models.Entry {
	return models.Entry{
		ID:            id,
		EventID:       eventID,
		DivisionID:    req.DivisionID,
		ParticipantID: req.ParticipantID,
		EntryNumber:   req.EntryNumber,
		Name:          req.Name,
		IsActive:      boolOr(req.IsActive, true),
	}
}

// JudgeRequest is the request body for adding or updating a judge
type JudgeRequest struct {
	UserID int     `json:"user_id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// boolOr returns the pointed-to value or def when unset
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
