package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type voteService struct {
	next    ports.VoteService
	metrics *MetricService
}

// InstrumentVotes counts toggles by outcome and observes their duration.
func (m *MetricService) InstrumentVotes(next ports.VoteService) ports.VoteService {
	return &voteService{next: next, metrics: m}
}

func (s *voteService) Toggle(ctx context.Context, input ports.ToggleInput) (*domain.ToggleResult, error) {
	start := time.Now()
	result, err := s.next.Toggle(ctx, input)
	s.metrics.toggleDuration.Observe(time.Since(start).Seconds())

	outcome := labelError
	if err == nil {
		outcome = string(result.Outcome)
	}
	s.metrics.voteToggles.WithLabelValues(outcome).Inc()

	return result, err
}

type pollService struct {
	ports.PollService
	metrics *MetricService
}

// InstrumentPolls counts polls created directly, as opposed to through a draft.
func (m *MetricService) InstrumentPolls(next ports.PollService) ports.PollService {
	return &pollService{PollService: next, metrics: m}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	poll, err := s.PollService.Create(ctx, input)
	if err == nil {
		s.metrics.pollsCreated.WithLabelValues("direct").Inc()
	}
	return poll, err
}

type draftService struct {
	next    ports.DraftService
	metrics *MetricService
}

// InstrumentDrafts counts draft transitions by operation and resulting state.
func (m *MetricService) InstrumentDrafts(next ports.DraftService) ports.DraftService {
	return &draftService{next: next, metrics: m}
}

func (s *draftService) Begin(ctx context.Context, user domain.User) (*domain.DraftResult, error) {
	return s.observe("begin")(s.next.Begin(ctx, user))
}

func (s *draftService) SetTopic(ctx context.Context, userID int64, text string) (*domain.DraftResult, error) {
	return s.observe("set_topic")(s.next.SetTopic(ctx, userID, text))
}

func (s *draftService) AddAnswer(ctx context.Context, userID int64, text string) (*domain.DraftResult, error) {
	return s.observe("add_answer")(s.next.AddAnswer(ctx, userID, text))
}

func (s *draftService) Finalize(ctx context.Context, userID int64) (*domain.DraftResult, error) {
	return s.observe("finalize")(s.next.Finalize(ctx, userID))
}

func (s *draftService) Abandon(ctx context.Context, userID int64) (*domain.DraftResult, error) {
	return s.observe("abandon")(s.next.Abandon(ctx, userID))
}

func (s *draftService) Current(ctx context.Context, userID int64) (*domain.Draft, error) {
	return s.next.Current(ctx, userID)
}

func (s *draftService) observe(operation string) func(*domain.DraftResult, error) (*domain.DraftResult, error) {
	return func(result *domain.DraftResult, err error) (*domain.DraftResult, error) {
		state := labelError
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			state = "invalid_transition"
		case err == nil:
			state = string(result.State)
			if result.State == domain.DraftCommitted {
				s.metrics.pollsCreated.WithLabelValues("draft").Inc()
			}
		}
		s.metrics.draftTransitions.WithLabelValues(operation, state).Inc()
		return result, err
	}
}
