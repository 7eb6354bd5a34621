package handlers

import (
	"net/http"

	"github.com/abrezinsky/eventvote/internal/models"
	"github.com/abrezinsky/eventvote/internal/services"
)

// voterFromRequest builds the voter identity for a ballot
func voterFromRequest(r *http.Request) (services.Voter, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return services.Voter{}, err
	}
	return services.Voter{UserID: userID, IP: clientIP(r)}, nil
}

// handleCastRanked accepts a ranked or weighted ballot: {"P": {"1": "13"}}
func (h *Handlers) handleCastRanked(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	voter, err := voterFromRequest(r)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	var ballot models.RankedBallot
	if err := decodeJSON(r, &ballot); err != nil {
		respondError(w, h.Log, err)
		return
	}

	ok, err := h.Voting.CastRankedVotes(r.Context(), eventID, voter, ballot)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, BallotResponse{Success: ok})
}

// handleCastApproval accepts an approval ballot
func (h *Handlers) handleCastApproval(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	voter, err := voterFromRequest(r)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	var req ApprovalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	ok, err := h.Voting.CastApprovalVotes(r.Context(), eventID, voter, req.EntryIDs)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, BallotResponse{Success: ok})
}

// handleCastRating accepts a rating for one entry
func (h *Handlers) handleCastRating(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	voter, err := voterFromRequest(r)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	var req RatingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	ok, err := h.Voting.CastRatingVote(r.Context(), eventID, voter, req.EntryID, req.Rating)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, BallotResponse{Success: ok})
}

func (h *Handlers) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	voted, err := h.Voting.HasUserVoted(r.Context(), userID, eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, VotedResponse{Voted: voted})
}

func (h *Handlers) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	votes, err := h.Voting.GetUserVotes(r.Context(), userID, eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, votes)
}

// handleResults returns full results, optionally for one division
func (h *Handlers) handleResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	divisionID, err := parseOptionalQueryInt(r, "division")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	var results []models.Result
	if divisionID != nil {
		results, err = h.Results.GetResultsByDivision(r.Context(), eventID, *divisionID)
	} else {
		results, err = h.Results.GetResults(r.Context(), eventID)
	}
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, ResultsResponse{EventID: eventID, DivisionID: divisionID, Results: results})
}

// handleLeaderboard returns the top entries; limit 0 lets the service pick its default
func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	divisionID, err := parseOptionalQueryInt(r, "division")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	limit, err := parseOptionalQueryInt(r, "limit")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	results, err := h.Results.GetLeaderboard(r.Context(), eventID, divisionID, n)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, ResultsResponse{EventID: eventID, DivisionID: divisionID, Results: results})
}
