package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type pollService struct {
	tx    ports.Transactor
	repo  ports.PollRepository
	users ports.UserRepository
}

func NewPollService(tx ports.Transactor, repo ports.PollRepository, users ports.UserRepository) ports.PollService {
	return &pollService{
		tx:    tx,
		repo:  repo,
		users: users,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	poll, err := newPoll(input.Owner.ID, input.Topic, input.Answers)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owner := input.Owner
		if err := s.users.Upsert(ctx, &owner); err != nil {
			return err
		}
		return s.repo.Save(ctx, poll)
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "poll created",
		slog.Int64("poll_id", poll.ID), slog.Int64("owner_id", poll.OwnerID), slog.Int("answers", len(poll.Answers)))

	return s.reload(ctx, poll.ID)
}

// GetPoll returns nil, nil when the poll does not exist, which callers treat as a closed poll.
func (s *pollService) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

// FindPolls puts the poll whose id equals query first, when it belongs to ownerID, followed by the
// owner's newest polls whose topic contains query.
func (s *pollService) FindPolls(ctx context.Context, ownerID int64, query string, limit int) ([]*domain.Poll, error) {
	polls := []*domain.Poll{}
	if limit <= 0 {
		return polls, nil
	}

	if id, err := strconv.ParseInt(strings.TrimSpace(query), 10, 64); err == nil {
		poll, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if poll != nil && poll.OwnerID == ownerID {
			polls = append(polls, poll)
		}
	}

	matches, err := s.repo.SearchByTopic(ctx, ownerID, query, limit)
	if err != nil {
		return nil, err
	}

	for _, poll := range matches {
		if len(polls) == limit {
			break
		}
		if len(polls) > 0 && polls[0].ID == poll.ID {
			continue
		}
		polls = append(polls, poll)
	}

	slog.DebugContext(ctx, "polls found",
		slog.Int64("owner_id", ownerID), slog.String("query", query), slog.Int("count", len(polls)))

	return polls, nil
}

func (s *pollService) ListPolls(ctx context.Context, ownerID int64, limit int) ([]*domain.Poll, error) {
	if limit <= 0 {
		return []*domain.Poll{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID, limit)
}

// Statistics builds the export for the poll's owner. Anyone else gets nil, nil as if the poll did not exist.
func (s *pollService) Statistics(ctx context.Context, pollID, requesterID int64) (*domain.PollStatistics, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil || poll.OwnerID != requesterID {
		return nil, nil
	}
	return domain.NewPollStatistics(poll), nil
}

func (s *pollService) reload(ctx context.Context, id int64) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload poll %d: %w", id, err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

// newPoll validates the input before anything is written.
func newPoll(ownerID int64, topic string, answers []string) (*domain.Poll, error) {
	if topic == "" || len(answers) == 0 {
		return nil, domain.ErrInvalidPoll
	}

	poll := &domain.Poll{
		OwnerID: ownerID,
		Topic:   topic,
		Answers: make([]domain.Answer, 0, len(answers)),
	}
	for i, text := range answers {
		if text == "" {
			return nil, domain.ErrInvalidPoll
		}
		poll.Answers = append(poll.Answers, domain.Answer{
			Position: i,
			Text:     text,
			Voters:   []domain.User{},
		})
	}
	return poll, nil
}
