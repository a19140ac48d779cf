package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

func (h *Handler) HandleUpsertAccount(w http.ResponseWriter, r *http.Request) {
	var req models.AccountRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.service.UpsertAccount(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// HandleListAccounts lists every account, or with ?badge_activity= only those
// holding a badge of that category.
func (h *Handler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	var (
		accounts []*models.Account
		err      error
	)
	if activity := r.URL.Query().Get("badge_activity"); activity != "" {
		accounts, err = h.service.AccountsByBadgeActivity(activity)
	} else {
		accounts, err = h.service.Accounts()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": accounts,
	})
}

func (h *Handler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Account(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.Projects(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": projects,
	})
}

func (h *Handler) HandleSubmitProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decode(w, r, &req) {
		return
	}
	req.AccountID = r.PathValue("id")

	project, err := h.service.SubmitProject(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Recommend(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleVerifyProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mentor string `json:"mentor"`
	}
	if !decode(w, r, &req) {
		return
	}
	project, err := h.service.VerifyProject(r.Context(), r.PathValue("id"), req.Mentor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) HandleCommentProject(w http.ResponseWriter, r *http.Request) {
	author, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	project, err := h.service.CommentProject(r.Context(), r.PathValue("id"), author, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) HandleCastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req models.VoteRequest
	if !decode(w, r, &req) {
		return
	}
	req.VoterID = voter

	ballot, err := h.service.CastVote(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ballot)
}

func (h *Handler) HandleVoteBudget(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.actor(w, r)
	if !ok {
		return
	}
	budget, err := h.service.VoteBudget(r.Context(), voter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *Handler) HandleTopPortfolios(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 10)
	if err != nil {
		writeError(w, r, err)
		return
	}
	top, err := h.service.TopPortfolios(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": top,
	})
}

func (h *Handler) HandlePortfolioExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.service.WritePortfolio(w, r.PathValue("id")); err != nil {
		w.Header().Del("Content-Type")
		writeError(w, r, err)
	}
}
