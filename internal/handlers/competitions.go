package handlers

import (
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/fusionx/internal/competition"
	"github.com/shrimpsizemoose/fusionx/internal/models"
)

func (h *Handler) HandleProposeCompetition(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req models.ProposeCompetitionRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.service.ProposeCompetition(r.Context(), req, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) HandleListCompetitions(w http.ResponseWriter, r *http.Request) {
	filter := competition.Filter{
		Status: models.CompetitionStatus(strings.ToUpper(r.URL.Query().Get("status"))),
		Field:  r.URL.Query().Get("field"),
	}

	views, err := h.service.Competitions(filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": views,
	})
}

func (h *Handler) HandleGetCompetition(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Competition(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleDeleteCompetition(w http.ResponseWriter, r *http.Request) {
	requester, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCompetition(r.Context(), r.PathValue("id"), requester); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleJoinCompetition(w http.ResponseWriter, r *http.Request) {
	participant, ok := h.actor(w, r)
	if !ok {
		return
	}
	view, err := h.service.JoinCompetition(r.Context(), r.PathValue("id"), participant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	order, err := competition.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := h.service.Submissions(r.PathValue("id"), order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": subs,
	})
}

func (h *Handler) HandleSubmitWork(w http.ResponseWriter, r *http.Request) {
	submitter, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req models.SubmitWorkRequest
	if !decode(w, r, &req) {
		return
	}
	req.CompetitionID = r.PathValue("id")
	req.SubmitterID = submitter

	sub, err := h.service.SubmitWork(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *Handler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.Ranking(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": ranking,
	})
}

func (h *Handler) HandleListFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.service.Feedback(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": fb,
	})
}

func (h *Handler) HandleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if !decode(w, r, &req) {
		return
	}
	fb, err := h.service.AddFeedback(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *Handler) HandleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	requester, ok := h.actor(w, r)
	if !ok {
		return
	}
	var upd models.SubmissionUpdate
	if !decode(w, r, &upd) {
		return
	}
	sub, err := h.service.UpdateSubmission(r.Context(), r.PathValue("id"), requester, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) HandleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	requester, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSubmission(r.Context(), r.PathValue("id"), requester); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleVoteSubmission(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.actor(w, r)
	if !ok {
		return
	}
	sub, err := h.service.VoteSubmission(r.Context(), r.PathValue("id"), voter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
