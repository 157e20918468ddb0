package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type toggleResponse struct {
	Outcome domain.ToggleOutcome `json:"outcome"`
	Poll    *pollView            `json:"poll,omitempty"`
}

// Toggle flips the caller's vote on one answer. Clients must not retry it blindly: a repeated
// request flips the vote back.
func (h *VoteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}
	answerID, ok := int64Param(w, r, "answerID", "invalid answer id")
	if !ok {
		return
	}

	result, err := h.service.Toggle(r.Context(), ports.ToggleInput{
		PollID:   pollID,
		AnswerID: answerID,
		Voter:    user,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := toggleResponse{Outcome: result.Outcome}
	if result.Poll != nil {
		view := newPollView(result.Poll)
		resp.Poll = &view
	}

	status := http.StatusOK
	if result.Outcome == domain.ToggleNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}
