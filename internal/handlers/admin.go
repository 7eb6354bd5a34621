package handlers

import (
	"net/http"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ==================== Templates ====================

func (h *Handlers) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Events.ListTemplates(r.Context())
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, templates)
}

func (h *Handlers) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.EventTemplate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}
	req.ID = 0

	id, err := h.Events.CreateTemplate(r.Context(), req)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	t, err := h.Events.GetTemplate(r.Context(), id)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, t)
}

func (h *Handlers) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteTemplate(r.Context(), id); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

// ==================== Events ====================

func (h *Handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListEvents(r.Context())
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, events)
}

func (h *Handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	id, err := h.Events.CreateEvent(r.Context(), req.toModel(0))
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	event, err := h.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	if err := h.Events.UpdateEvent(r.Context(), req.toModel(eventID)); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Event updated"})
}

func (h *Handlers) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteEvent(r.Context(), eventID); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetVotingType(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req SetVotingTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}
	if req.VotingTypeID <= 0 {
		respondError(w, h.Log, BadRequest("voting_type_id is required"))
		return
	}

	if err := h.Events.SetVotingType(r.Context(), eventID, req.VotingTypeID); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Voting type set"})
}

// handleClearEvent deletes all votes, entries, participants and divisions of an event
func (h *Handlers) handleClearEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.ClearEventData(r.Context(), eventID); err != nil {
		respondError(w, h.Log, err)
		return
	}
	h.Log.Info("Event data cleared", "event_id", eventID)
	respondOK(w, MessageResponse{Message: "Event data cleared"})
}

func (h *Handlers) handleRebuildSummaries(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Results.RebuildSummaries(r.Context(), eventID); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Vote summaries rebuilt"})
}

func (h *Handlers) handleTies(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	ties, err := h.Results.DetectTies(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, ties)
}

func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	stats, err := h.Results.GetStats(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, stats)
}

// handleBallotQR serves the event's ballot link as a PNG
func (h *Handlers) handleBallotQR(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	png, err := h.Events.BallotQRCode(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Divisions ====================

func (h *Handlers) handleListDivisions(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	divisions, err := h.Events.ListDivisions(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, divisions)
}

func (h *Handlers) handleCreateDivision(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req DivisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	id, err := h.Events.CreateDivision(r.Context(), models.Division{
		EventID:      eventID,
		Code:         req.Code,
		Name:         req.Name,
		Type:         req.Type,
		DisplayOrder: req.DisplayOrder,
		IsActive:     boolOr(req.IsActive, true),
	})
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleUpdateDivision(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req DivisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	err = h.Events.UpdateDivision(r.Context(), models.Division{
		ID:           id,
		EventID:      eventID,
		Code:         req.Code,
		Name:         req.Name,
		Type:         req.Type,
		DisplayOrder: req.DisplayOrder,
		IsActive:     boolOr(req.IsActive, true),
	})
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Division updated"})
}

func (h *Handlers) handleDeleteDivision(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteDivision(r.Context(), eventID, id); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

// ==================== Participants ====================

func (h *Handlers) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	participants, err := h.Events.ListParticipants(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, participants)
}

func (h *Handlers) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req ParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	id, err := h.Events.CreateParticipant(r.Context(), models.Participant{
		EventID:    eventID,
		DivisionID: req.DivisionID,
		Name:       req.Name,
		Email:      req.Email,
	})
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteParticipant(r.Context(), eventID, id); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

// ==================== Entries ====================

func (h *Handlers) handleListEntries(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	entries, err := h.Events.ListEntries(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, entries)
}

func (h *Handlers) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	id, err := h.Events.CreateEntry(r.Context(), req.toModel(0, eventID))
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}

	if err := h.Events.UpdateEntry(r.Context(), req.toModel(id, eventID)); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Entry updated"})
}

func (h *Handlers) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteEntry(r.Context(), eventID, id); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

// ==================== Judges ====================

func (h *Handlers) handleListJudges(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	judges, err := h.Events.ListJudges(r.Context(), eventID)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, judges)
}

// handleUpsertJudge adds a judge or updates an existing judge's weight
func (h *Handlers) handleUpsertJudge(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	var req JudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}
	if req.UserID <= 0 {
		respondError(w, h.Log, BadRequest("user_id is required"))
		return
	}

	err = h.Events.UpsertJudge(r.Context(), models.Judge{
		EventID: eventID,
		UserID:  req.UserID,
		Name:    req.Name,
		Weight:  req.Weight,
	})
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, MessageResponse{Message: "Judge saved"})
}

func (h *Handlers) handleDeleteJudge(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "eventID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	userID, err := parseIntParam(r, "userID")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteJudge(r.Context(), eventID, userID); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}

// ==================== Voting Types ====================

func (h *Handlers) handleListVotingTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Events.ListVotingTypes(r.Context())
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, types)
}

func (h *Handlers) handleCreateVotingType(w http.ResponseWriter, r *http.Request) {
	var req models.VotingType
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.Log, err)
		return
	}
	req.ID = 0

	id, err := h.Events.CreateVotingType(r.Context(), req)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondCreated(w, id)
}

func (h *Handlers) handleGetVotingType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	vt, err := h.Events.GetVotingType(r.Context(), id)
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondOK(w, vt)
}

func (h *Handlers) handleDeleteVotingType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, h.Log, err)
		return
	}
	if err := h.Events.DeleteVotingType(r.Context(), id); err != nil {
		respondError(w, h.Log, err)
		return
	}
	respondDeleted(w)
}
