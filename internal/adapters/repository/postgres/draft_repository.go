package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

// draftBlob is the JSON document kept in user_states.state.
type draftBlob struct {
	Topic   string   `json:"topic,omitempty"`
	Answers []string `json:"answers"`
}

type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) ports.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Lock(ctx context.Context, userID int64) (*domain.Draft, error) {
	return r.get(ctx, userID, true)
}

func (r *draftRepository) Get(ctx context.Context, userID int64) (*domain.Draft, error) {
	return r.get(ctx, userID, false)
}

func (r *draftRepository) get(ctx context.Context, userID int64, forUpdate bool) (*domain.Draft, error) {
	query := `
		SELECT c.state, s.state
		FROM conversation_states c
		JOIN user_states s ON s.id = c.user_id
		WHERE c.user_id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		state string
		blob  []byte
	)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&state, &blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to get draft", err)
	}

	draft := &domain.Draft{UserID: userID, State: domain.DraftState(state), Answers: []string{}}
	if !draft.State.Valid() || draft.State.Terminal() {
		return nil, fmt.Errorf("draft of user %d has unexpected state %q", userID, state)
	}

	var data draftBlob
	if err := json.Unmarshal(blob, &data); err != nil {
		// an unreadable blob counts as an empty draft at the same position
		slog.WarnContext(ctx, "discarding unreadable draft data", slog.Int64("user_id", userID), slog.Any("error", err))
		return draft, nil
	}
	draft.Topic = data.Topic
	if data.Answers != nil {
		draft.Answers = data.Answers
	}
	return draft, nil
}

func (r *draftRepository) Save(ctx context.Context, draft *domain.Draft) error {
	if draft.State.Terminal() || !draft.State.Valid() {
		return fmt.Errorf("cannot persist draft in state %q", draft.State)
	}

	blob, err := json.Marshal(draftBlob{Topic: draft.Topic, Answers: draft.Answers})
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	return runInTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		_, err := q.ExecContext(ctx, `
			INSERT INTO user_states (id, state)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state
		`, draft.UserID, string(blob))
		if err != nil {
			return unavailable("failed to save draft", err)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO conversation_states (user_id, state, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
		`, draft.UserID, string(draft.State))
		if err != nil {
			return unavailable("failed to save conversation state", err)
		}
		return nil
	})
}

func (r *draftRepository) Delete(ctx context.Context, userID int64) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		if _, err := q.ExecContext(ctx, `DELETE FROM conversation_states WHERE user_id = $1`, userID); err != nil {
			return unavailable("failed to delete conversation state", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM user_states WHERE id = $1`, userID); err != nil {
			return unavailable("failed to delete draft", err)
		}
		return nil
	})
}
