package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Polls   *PollHandler
	Votes   *VoteHandler
	Drafts  *DraftHandler
	Users   *UserHandler
	Metrics http.Handler
}

func NewHandler(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(Identity(jwtSecret))

		r.Get("/me", h.Users.GetMe)

		r.Route("/polls", func(r chi.Router) {
			r.Post("/", h.Polls.CreatePoll)
			r.Get("/", h.Polls.ListPolls)
			r.Get("/search", h.Polls.SearchPolls)
			r.Get("/{id}", h.Polls.GetPoll)
			r.Get("/{id}/statistics", h.Polls.Statistics)
			r.Post("/{id}/answers/{answerID}/toggle", h.Votes.Toggle)
		})

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", h.Drafts.Current)
			r.Post("/", h.Drafts.Begin)
			r.Delete("/", h.Drafts.Abandon)
			r.Post("/topic", h.Drafts.SetTopic)
			r.Post("/answers", h.Drafts.AddAnswer)
			r.Post("/finalize", h.Drafts.Finalize)
		})
	})

	return r
}
