package services

import (
	"context"
	"log/slog"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

// DefaultMaxAnswers is the answer count that finalizes a draft automatically.
const DefaultMaxAnswers = 10

type draftService struct {
	tx         ports.Transactor
	drafts     ports.DraftRepository
	polls      ports.PollRepository
	users      ports.UserRepository
	maxAnswers int
}

// NewDraftService returns the poll creation state machine. A maxAnswers of zero or less disables the
// automatic finalize.
func NewDraftService(tx ports.Transactor, drafts ports.DraftRepository, polls ports.PollRepository, users ports.UserRepository, maxAnswers int) ports.DraftService {
	return &draftService{
		tx:         tx,
		drafts:     drafts,
		polls:      polls,
		users:      users,
		maxAnswers: maxAnswers,
	}
}

// Begin discards any previous draft of the user and starts a new one at the question step.
func (s *draftService) Begin(ctx context.Context, user domain.User) (*domain.DraftResult, error) {
	draft := domain.NewDraft(user.ID)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Upsert(ctx, &user); err != nil {
			return err
		}
		return s.drafts.Save(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "draft started", slog.Int64("user_id", user.ID))
	return &domain.DraftResult{State: draft.State, Draft: draft}, nil
}

func (s *draftService) SetTopic(ctx context.Context, userID int64, text string) (*domain.DraftResult, error) {
	return s.transition(ctx, userID, func(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
		if err := d.SetTopic(text); err != nil {
			return nil, err
		}
		return s.save(ctx, d)
	})
}

func (s *draftService) AddAnswer(ctx context.Context, userID int64, text string) (*domain.DraftResult, error) {
	return s.transition(ctx, userID, func(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
		if err := d.AddAnswer(text); err != nil {
			return nil, err
		}
		if s.maxAnswers > 0 && len(d.Answers) >= s.maxAnswers {
			return s.commit(ctx, d)
		}
		return s.save(ctx, d)
	})
}

func (s *draftService) Finalize(ctx context.Context, userID int64) (*domain.DraftResult, error) {
	return s.transition(ctx, userID, func(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
		if !d.CanFinalize() {
			return nil, domain.ErrInvalidTransition
		}
		return s.commit(ctx, d)
	})
}

func (s *draftService) Abandon(ctx context.Context, userID int64) (*domain.DraftResult, error) {
	return s.transition(ctx, userID, func(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
		if err := s.drafts.Delete(ctx, d.UserID); err != nil {
			return nil, err
		}
		return &domain.DraftResult{State: domain.DraftAbandoned}, nil
	})
}

// Current returns the persisted draft so a transport can resume the flow, or nil when there is none.
func (s *draftService) Current(ctx context.Context, userID int64) (*domain.Draft, error) {
	return s.drafts.Get(ctx, userID)
}

// transition locks the user's draft for the duration of one transaction and applies fn to it.
// A user without a draft is in a terminal state, so every transition from there is invalid.
func (s *draftService) transition(ctx context.Context, userID int64, fn func(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error)) (*domain.DraftResult, error) {
	var result *domain.DraftResult

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		draft, err := s.drafts.Lock(ctx, userID)
		if err != nil {
			return err
		}
		if draft == nil {
			return domain.ErrInvalidTransition
		}

		result, err = fn(ctx, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "draft transition", slog.Int64("user_id", userID), slog.String("state", string(result.State)))

	if result.Poll != nil {
		poll, err := s.polls.GetByID(ctx, result.Poll.ID)
		if err != nil {
			return nil, err
		}
		if poll != nil {
			result.Poll = poll
		}
	}
	return result, nil
}

func (s *draftService) save(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return &domain.DraftResult{State: d.State, Draft: d}, nil
}

func (s *draftService) commit(ctx context.Context, d *domain.Draft) (*domain.DraftResult, error) {
	poll, err := newPoll(d.UserID, d.Topic, d.Answers)
	if err != nil {
		return nil, err
	}
	if err := s.polls.Save(ctx, poll); err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, d.UserID); err != nil {
		return nil, err
	}
	return &domain.DraftResult{State: domain.DraftCommitted, Poll: poll}, nil
}
