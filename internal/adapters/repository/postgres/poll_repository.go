package postgres

import (
	"context"
	"database/sql"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

// hydrateQuery loads whole polls in one statement so readers always see a poll with all of its
// answers and a single snapshot of its votes. It expects a CTE named selected(id).
const hydrateQuery = `
	SELECT p.id, p.owner_id, p.topic,
	       a.id, a.position, a.text,
	       u.id, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.username, '')
	FROM selected s
	JOIN polls p ON p.id = s.id
	JOIN answers a ON a.poll_id = p.id
	LEFT JOIN votes v ON v.answer_id = a.id AND v.poll_id = p.id
	LEFT JOIN users u ON u.id = v.user_id
	ORDER BY p.id DESC, a.position, v.voted_at, v.user_id
`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		queryPoll := `
			INSERT INTO polls (owner_id, topic)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := q.QueryRowContext(ctx, queryPoll, poll.OwnerID, poll.Topic).Scan(&poll.ID); err != nil {
			return unavailable("failed to insert poll", err)
		}

		queryAnswer := `
			INSERT INTO answers (poll_id, position, text)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		stmt, err := q.PrepareContext(ctx, queryAnswer)
		if err != nil {
			return unavailable("failed to prepare answer statement", err)
		}
		defer stmt.Close()

		for i := range poll.Answers {
			answer := &poll.Answers[i]
			answer.PollID = poll.ID
			answer.Position = i
			if err := stmt.QueryRowContext(ctx, answer.PollID, answer.Position, answer.Text).Scan(&answer.ID); err != nil {
				return unavailable("failed to insert answer", err)
			}
		}

		return nil
	})
}

func (r *pollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	query := `WITH selected AS (SELECT $1::BIGINT AS id)` + hydrateQuery

	polls, err := r.hydrate(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(polls) == 0 {
		return nil, nil
	}
	return polls[0], nil
}

func (r *pollRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Poll, error) {
	query := `
		WITH selected AS (
			SELECT id FROM polls
			WHERE owner_id = $1
			ORDER BY id DESC
			LIMIT $2
		)` + hydrateQuery

	return r.hydrate(ctx, query, ownerID, limit)
}

// SearchByTopic matches query as a case sensitive substring of the topic.
func (r *pollRepository) SearchByTopic(ctx context.Context, ownerID int64, query string, limit int) ([]*domain.Poll, error) {
	q := `
		WITH selected AS (
			SELECT id FROM polls
			WHERE owner_id = $1 AND strpos(topic, $2) > 0
			ORDER BY id DESC
			LIMIT $3
		)` + hydrateQuery

	return r.hydrate(ctx, q, ownerID, query, limit)
}

func (r *pollRepository) hydrate(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("failed to get polls", err)
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	var poll *domain.Poll
	for rows.Next() {
		var (
			pollID, ownerID, answerID int64
			topic, text               string
			position                  int
			voterID                   sql.NullInt64
			voter                     domain.User
		)
		err := rows.Scan(&pollID, &ownerID, &topic, &answerID, &position, &text,
			&voterID, &voter.FirstName, &voter.LastName, &voter.Username)
		if err != nil {
			return nil, unavailable("failed to scan poll", err)
		}

		if poll == nil || poll.ID != pollID {
			poll = &domain.Poll{ID: pollID, OwnerID: ownerID, Topic: topic, Answers: []domain.Answer{}}
			polls = append(polls, poll)
		}

		n := len(poll.Answers)
		if n == 0 || poll.Answers[n-1].ID != answerID {
			poll.Answers = append(poll.Answers, domain.Answer{
				ID:       answerID,
				PollID:   pollID,
				Position: position,
				Text:     text,
				Voters:   []domain.User{},
			})
			n++
		}

		if voterID.Valid {
			voter.ID = voterID.Int64
			poll.Answers[n-1].Voters = append(poll.Answers[n-1].Voters, voter)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating polls", err)
	}
	return polls, nil
}
