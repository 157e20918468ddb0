package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

const (
	pollsPerPage = 5
	searchLimit  = 50
)

type PollHandler struct {
	service  ports.PollService
	maxPolls int
}

func NewPollHandler(service ports.PollService, maxPolls int) *PollHandler {
	return &PollHandler{
		service:  service,
		maxPolls: maxPolls,
	}
}

type createPollRequest struct {
	Topic   string   `json:"topic"`
	Answers []string `json:"answers"`
}

type pollView struct {
	*domain.Poll
	TotalVoters int                  `json:"total_voters"`
	Stats       []domain.AnswerStats `json:"stats"`
}

func newPollView(p *domain.Poll) pollView {
	return pollView{Poll: p, TotalVoters: p.TotalVoters(), Stats: p.Stats()}
}

type pollPage struct {
	Polls []pollView        `json:"polls"`
	Page  domain.PageWindow `json:"page"`
}

type searchResult struct {
	ResultID string   `json:"result_id"`
	Poll     pollView `json:"poll"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createPollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		Owner:   user,
		Topic:   req.Topic,
		Answers: req.Answers,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPollView(poll))
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if poll == nil {
		writeError(w, r, domain.ErrPollNotFound)
		return
	}

	writeJSON(w, http.StatusOK, newPollView(poll))
}

// ListPolls returns one page of the caller's newest polls. The offset query parameter selects the page.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	polls, err := h.service.ListPolls(r.Context(), user.ID, h.maxPolls)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := domain.Paginate(len(polls), offset, pollsPerPage)
	from, to := page.Bounds()
	views := make([]pollView, 0, to-from)
	for _, p := range polls[from:to] {
		views = append(views, newPollView(p))
	}

	writeJSON(w, http.StatusOK, pollPage{Polls: views, Page: page})
}

func (h *PollHandler) SearchPolls(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	polls, err := h.service.FindPolls(r.Context(), user.ID, r.URL.Query().Get("q"), searchLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results := make([]searchResult, 0, len(polls))
	for _, p := range polls {
		results = append(results, searchResult{ResultID: uuid.NewString(), Poll: newPollView(p)})
	}
	writeJSON(w, http.StatusOK, results)
}

// Statistics exports voters per answer. Only the owner gets a result; anyone else sees a missing poll.
func (h *PollHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), id, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stats == nil {
		writeError(w, r, domain.ErrPollNotFound)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func pollIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return int64Param(w, r, "id", "invalid poll id")
}

func int64Param(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, msg)
		return 0, false
	}
	return id, true
}
