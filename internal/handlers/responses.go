package handlers

import "github.com/abrezinsky/eventvote/internal/models"

// IDResponse is returned when a record is created
type IDResponse struct {
	ID int64 `json:"id"`
}

// BallotResponse is the response for an accepted ballot
type BallotResponse struct {
	Success bool `json:"success"`
}

// VotedResponse reports whether the caller already voted in an event
type VotedResponse struct {
	Voted bool `json:"voted"`
}

// ResultsResponse wraps a results view with the event it belongs to
type ResultsResponse struct {
	EventID    int             `json:"event_id"`
	DivisionID *int            `json:"division_id,omitempty"`
	Results    []models.Result `json:"results"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
