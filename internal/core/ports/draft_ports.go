package ports

import (
	"context"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

type DraftRepository interface {
	// Lock returns the user's draft and holds a row lock on it until the surrounding transaction ends.
	// It returns nil, nil when the user has no draft.
	Lock(ctx context.Context, userID int64) (*domain.Draft, error)
	Get(ctx context.Context, userID int64) (*domain.Draft, error)
	// Save creates or overwrites the draft together with its conversation position.
	Save(ctx context.Context, draft *domain.Draft) error
	Delete(ctx context.Context, userID int64) error
}

type DraftService interface {
	Begin(ctx context.Context, user domain.User) (*domain.DraftResult, error)
	SetTopic(ctx context.Context, userID int64, text string) (*domain.DraftResult, error)
	AddAnswer(ctx context.Context, userID int64, text string) (*domain.DraftResult, error)
	Finalize(ctx context.Context, userID int64) (*domain.DraftResult, error)
	Abandon(ctx context.Context, userID int64) (*domain.DraftResult, error)
	Current(ctx context.Context, userID int64) (*domain.Draft, error)
}
