package ports

import (
	"context"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

type PollRepository interface {
	// Save inserts the poll and its answers, filling in the generated ids.
	Save(ctx context.Context, poll *domain.Poll) error
	// GetByID returns nil, nil for an unknown id.
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Poll, error)
	SearchByTopic(ctx context.Context, ownerID int64, query string, limit int) ([]*domain.Poll, error)
}

type CreatePollInput struct {
	Owner   domain.User
	Topic   string
	Answers []string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id int64) (*domain.Poll, error)
	FindPolls(ctx context.Context, ownerID int64, query string, limit int) ([]*domain.Poll, error)
	ListPolls(ctx context.Context, ownerID int64, limit int) ([]*domain.Poll, error)
	Statistics(ctx context.Context, pollID, requesterID int64) (*domain.PollStatistics, error)
}
