package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, err := h.service.Notifications(r.PathValue("id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": notes,
	})
}

func (h *Handler) HandleChatRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ChatRooms()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": rooms,
	})
}

func (h *Handler) HandleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.ChatHistory(r.PathValue("room"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": msgs,
	})
}

func (h *Handler) HandlePostChat(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req models.ChatRequest
	if !decode(w, r, &req) {
		return
	}
	req.Room = r.PathValue("room")
	req.User = user

	msg, err := h.service.PostChat(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) HandleNewsletter(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.Newsletter()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": sections,
	})
}

func (h *Handler) HandleNewsletterText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.service.WriteNewsletter(w, h.service.Now()); err != nil {
		writeError(w, r, err)
	}
}

func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	acts, err := h.service.RecentActivity(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": acts,
	})
}
