package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/app"
	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/metrics"
)

type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Routes registers the JSON API and /metrics on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	h.route(mux, "POST /api/v1/competitions", h.HandleProposeCompetition)
	h.route(mux, "GET /api/v1/competitions", h.HandleListCompetitions)
	h.route(mux, "GET /api/v1/competitions/{id}", h.HandleGetCompetition)
	h.route(mux, "DELETE /api/v1/competitions/{id}", h.HandleDeleteCompetition)
	h.route(mux, "POST /api/v1/competitions/{id}/join", h.HandleJoinCompetition)
	h.route(mux, "GET /api/v1/competitions/{id}/submissions", h.HandleListSubmissions)
	h.route(mux, "POST /api/v1/competitions/{id}/submissions", h.HandleSubmitWork)
	h.route(mux, "GET /api/v1/competitions/{id}/ranking", h.HandleRanking)
	h.route(mux, "GET /api/v1/competitions/{id}/feedback", h.HandleListFeedback)
	h.route(mux, "POST /api/v1/competitions/{id}/feedback", h.HandleAddFeedback)

	h.route(mux, "PATCH /api/v1/submissions/{id}", h.HandleUpdateSubmission)
	h.route(mux, "DELETE /api/v1/submissions/{id}", h.HandleDeleteSubmission)
	h.route(mux, "POST /api/v1/submissions/{id}/votes", h.HandleVoteSubmission)

	h.route(mux, "POST /api/v1/accounts", h.HandleUpsertAccount)
	h.route(mux, "GET /api/v1/accounts", h.HandleListAccounts)
	h.route(mux, "GET /api/v1/accounts/{id}", h.HandleGetAccount)
	h.route(mux, "GET /api/v1/accounts/{id}/projects", h.HandleListProjects)
	h.route(mux, "POST /api/v1/accounts/{id}/projects", h.HandleSubmitProject)
	h.route(mux, "GET /api/v1/accounts/{id}/recommendations", h.HandleRecommend)
	h.route(mux, "GET /api/v1/accounts/{id}/notifications", h.HandleNotifications)
	h.route(mux, "GET /api/v1/accounts/{id}/portfolio.txt", h.HandlePortfolioExport)

	h.route(mux, "POST /api/v1/projects/{id}/verify", h.HandleVerifyProject)
	h.route(mux, "POST /api/v1/projects/{id}/comments", h.HandleCommentProject)

	h.route(mux, "POST /api/v1/votes", h.HandleCastVote)
	h.route(mux, "GET /api/v1/votes/budget", h.HandleVoteBudget)
	h.route(mux, "GET /api/v1/leaderboard/portfolios", h.HandleTopPortfolios)

	h.route(mux, "GET /api/v1/chat/rooms", h.HandleChatRooms)
	h.route(mux, "GET /api/v1/chat/rooms/{room}", h.HandleChatHistory)
	h.route(mux, "POST /api/v1/chat/rooms/{room}", h.HandlePostChat)

	h.route(mux, "GET /api/v1/newsletter", h.HandleNewsletter)
	h.route(mux, "GET /api/v1/newsletter.txt", h.HandleNewsletterText)
	h.route(mux, "GET /api/v1/activity", h.HandleActivity)

	mux.Handle("/metrics", promhttp.Handler())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// route wraps every handler with the header check and request duration metrics.
func (h *Handler) route(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			metrics.APIRequestDuration.WithLabelValues(
				r.Pattern,
				r.Method,
				strconv.Itoa(rec.status),
			).Observe(time.Since(start).Seconds())
		}()

		if !h.service.ValidateHeaders(r.Header) {
			http.Error(rec, "these are not the droids you are looking for", http.StatusForbidden)
			return
		}
		fn(rec, r)
	})
}

// actor is the acting user, taken from the configured header.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := r.Header.Get(h.service.Config.API.ActorHeader)
	if actor == "" {
		http.Error(w, "Invalid user id specified", http.StatusUnauthorized)
		return "", false
	}
	return actor, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug.Printf("Invalid request body for %s: %v", r.URL.Path, err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "Internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}
