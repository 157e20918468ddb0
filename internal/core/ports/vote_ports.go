package ports

import (
	"context"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

type VoteRepository interface {
	// Toggle flips the vote fact and reports whether it exists afterwards.
	// It returns domain.ErrPollNotFound when the answer no longer belongs to the poll.
	Toggle(ctx context.Context, vote domain.Vote) (voted bool, err error)
}

type ToggleInput struct {
	PollID   int64
	AnswerID int64
	Voter    domain.User
}

type VoteService interface {
	Toggle(ctx context.Context, input ToggleInput) (*domain.ToggleResult, error)
}
