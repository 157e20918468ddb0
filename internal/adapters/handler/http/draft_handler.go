package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type DraftHandler struct {
	service ports.DraftService
}

func NewDraftHandler(service ports.DraftService) *DraftHandler {
	return &DraftHandler{
		service: service,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *DraftHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	draft, err := h.service.Current(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if draft == nil {
		writeErrorMessage(w, http.StatusNotFound, "no draft in progress")
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Begin(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusCreated)(h.service.Begin(r.Context(), user))
}

func (h *DraftHandler) SetTopic(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, http.StatusOK)(h.service.SetTopic(r.Context(), user.ID, req.Text))
}

func (h *DraftHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, http.StatusOK)(h.service.AddAnswer(r.Context(), user.ID, req.Text))
}

func (h *DraftHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.service.Finalize(r.Context(), user.ID))
}

func (h *DraftHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK)(h.service.Abandon(r.Context(), user.ID))
}

// respond writes a transition result. A commit answers 201 since it publishes a poll.
func (h *DraftHandler) respond(w http.ResponseWriter, r *http.Request, status int) func(*domain.DraftResult, error) {
	return func(result *domain.DraftResult, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		if result.State == domain.DraftCommitted {
			status = http.StatusCreated
		}
		writeJSON(w, status, result)
	}
}
