package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

// A round only fails to apply when a concurrent toggle of the same fact committed between our two
// statements, so a couple of rounds is always enough unless the same user hammers the same answer.
const toggleRounds = 3

var errToggleContention = errors.New("vote fact kept changing under concurrent toggles")

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Toggle deletes the (user, answer) fact if it exists and inserts it otherwise. Each statement of the
// READ COMMITTED transaction sees the latest committed state, and the primary key on (user_id, answer_id)
// makes a concurrent insert of the same fact wait for ours, so same-user toggles apply one after another
// while toggles of other users never block on each other.
func (r *voteRepository) Toggle(ctx context.Context, vote domain.Vote) (bool, error) {
	var voted bool

	err := runInTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		for i := 0; i < toggleRounds; i++ {
			res, err := q.ExecContext(ctx, `DELETE FROM votes WHERE user_id = $1 AND answer_id = $2`, vote.UserID, vote.AnswerID)
			if err != nil {
				return unavailable("failed to delete vote", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return unavailable("failed to delete vote", err)
			} else if n > 0 {
				voted = false
				return nil
			}

			res, err = q.ExecContext(ctx, `
				INSERT INTO votes (user_id, poll_id, answer_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id, answer_id) DO NOTHING
			`, vote.UserID, vote.PollID, vote.AnswerID)
			if err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrPollNotFound
				}
				return unavailable("failed to save vote", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return unavailable("failed to save vote", err)
			} else if n > 0 {
				voted = true
				return nil
			}
		}

		return unavailable("failed to toggle vote", errToggleContention)
	})

	return voted, err
}
