package domain

// DraftState is the position of a user in the poll creation flow.
type DraftState string

const (
	DraftQuestion    DraftState = "QUESTION"
	DraftFirstAnswer DraftState = "FIRST_ANSWER"
	DraftAnswers     DraftState = "ANSWERS"
	DraftCommitted   DraftState = "COMMITTED"
	DraftAbandoned   DraftState = "ABANDONED"
)

// Terminal states are never persisted: reaching one deletes the draft.
func (s DraftState) Terminal() bool {
	return s == DraftCommitted || s == DraftAbandoned
}

func (s DraftState) Valid() bool {
	switch s {
	case DraftQuestion, DraftFirstAnswer, DraftAnswers, DraftCommitted, DraftAbandoned:
		return true
	}
	return false
}

// Draft is the durable in-progress state of a poll being created by UserID.
type Draft struct {
	UserID  int64      `json:"user_id"`
	State   DraftState `json:"state"`
	Topic   string     `json:"topic,omitempty"`
	Answers []string   `json:"answers"`
}

// NewDraft returns an empty draft positioned at the question step.
func NewDraft(userID int64) *Draft {
	return &Draft{UserID: userID, State: DraftQuestion, Answers: []string{}}
}

// SetTopic moves the draft from QUESTION to FIRST_ANSWER.
func (d *Draft) SetTopic(text string) error {
	if d.State != DraftQuestion || text == "" {
		return ErrInvalidTransition
	}
	d.Topic = text
	d.State = DraftFirstAnswer
	return nil
}

// AddAnswer appends an answer option and moves the draft to ANSWERS.
func (d *Draft) AddAnswer(text string) error {
	if (d.State != DraftFirstAnswer && d.State != DraftAnswers) || text == "" {
		return ErrInvalidTransition
	}
	d.Answers = append(d.Answers, text)
	d.State = DraftAnswers
	return nil
}

// CanFinalize reports whether the draft holds enough data to become a poll.
func (d *Draft) CanFinalize() bool {
	return d.State == DraftAnswers && d.Topic != "" && len(d.Answers) > 0
}

// DraftResult reports the state reached by a transition. Poll is set only when the draft was committed.
type DraftResult struct {
	State DraftState `json:"state"`
	Draft *Draft     `json:"draft,omitempty"`
	Poll  *Poll      `json:"poll,omitempty"`
}
