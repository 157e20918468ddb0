package ports

import (
	"context"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type UserService interface {
	Upsert(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
