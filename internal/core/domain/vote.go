package domain

// Vote is the fact that a user currently votes for an answer of a poll.
type Vote struct {
	UserID   int64 `json:"user_id"`
	PollID   int64 `json:"poll_id"`
	AnswerID int64 `json:"answer_id"`
}

type ToggleOutcome string

const (
	// ToggleNotFound means the poll or the answer does not exist, usually because the poll was closed.
	ToggleNotFound ToggleOutcome = "not_found"
	ToggleVoted    ToggleOutcome = "voted"
	ToggleUnvoted  ToggleOutcome = "unvoted"
)

type ToggleResult struct {
	Outcome ToggleOutcome `json:"outcome"`
	// Poll is reloaded after the toggle; nil when Outcome is ToggleNotFound.
	Poll *Poll `json:"poll,omitempty"`
}
