package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GetMe returns the display fields cached for the caller, or the token identity when nothing is cached yet.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	cached, err := h.service.GetByID(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cached == nil {
		cached = &user
	}

	writeJSON(w, http.StatusOK, cached)
}
