package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type voteService struct {
	tx       ports.Transactor
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	userRepo ports.UserRepository
}

func NewVoteService(tx ports.Transactor, pollRepo ports.PollRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository) ports.VoteService {
	return &voteService{
		tx:       tx,
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		userRepo: userRepo,
	}
}

// Toggle flips the voter's vote for one answer and returns the reloaded poll.
//
// A toggle is not idempotent: retrying a call whose outcome is unknown may flip the vote back.
// Callers must confirm the previous attempt's result before repeating it.
func (s *voteService) Toggle(ctx context.Context, input ports.ToggleInput) (*domain.ToggleResult, error) {
	notFound := &domain.ToggleResult{Outcome: domain.ToggleNotFound}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	if poll == nil || poll.Answer(input.AnswerID) == nil {
		slog.DebugContext(ctx, "vote target not found",
			slog.Int64("poll_id", input.PollID), slog.Int64("answer_id", input.AnswerID), slog.Int64("user_id", input.Voter.ID))
		return notFound, nil
	}

	var voted bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		voter := input.Voter
		if err := s.userRepo.Upsert(ctx, &voter); err != nil {
			return err
		}

		voted, err = s.voteRepo.Toggle(ctx, domain.Vote{
			UserID:   input.Voter.ID,
			PollID:   input.PollID,
			AnswerID: input.AnswerID,
		})
		return err
	})
	if errors.Is(err, domain.ErrPollNotFound) {
		return notFound, nil
	}
	if err != nil {
		return nil, err
	}

	result := &domain.ToggleResult{Outcome: domain.ToggleUnvoted}
	if voted {
		result.Outcome = domain.ToggleVoted
	}

	slog.DebugContext(ctx, "vote toggled",
		slog.Int64("poll_id", input.PollID), slog.Int64("answer_id", input.AnswerID),
		slog.Int64("user_id", input.Voter.ID), slog.String("outcome", string(result.Outcome)))

	result.Poll, err = s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	return result, nil
}
