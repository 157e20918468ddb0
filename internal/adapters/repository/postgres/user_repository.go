package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, username)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    username = EXCLUDED.username
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, user.ID, user.FirstName, user.LastName, user.Username)
	if err != nil {
		return unavailable("failed to upsert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, first_name, COALESCE(last_name, ''), COALESCE(username, '') FROM users WHERE id = $1`
	user := &domain.User{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to get user", err)
	}
	return user, nil
}
