package domain

// PollStatistics is the structured export sent to a poll's owner.
type PollStatistics struct {
	PollID  int64             `json:"poll_id"`
	Topic   string            `json:"topic"`
	Answers []AnswerStatistic `json:"answers"`
}

type AnswerStatistic struct {
	ID     int64        `json:"id"`
	Text   string       `json:"text"`
	Voters VoterSummary `json:"voters"`
}

type VoterSummary struct {
	Total int             `json:"total"`
	List  []VoterIdentity `json:"list"`
}

// VoterIdentity drops empty display fields from the export.
type VoterIdentity struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

func NewPollStatistics(p *Poll) *PollStatistics {
	stats := &PollStatistics{
		PollID:  p.ID,
		Topic:   p.Topic,
		Answers: make([]AnswerStatistic, 0, len(p.Answers)),
	}
	for _, a := range p.Answers {
		voters := make([]VoterIdentity, 0, len(a.Voters))
		for _, v := range a.Voters {
			voters = append(voters, VoterIdentity(v))
		}
		stats.Answers = append(stats.Answers, AnswerStatistic{
			ID:     a.ID,
			Text:   a.Text,
			Voters: VoterSummary{Total: len(voters), List: voters},
		})
	}
	return stats
}
