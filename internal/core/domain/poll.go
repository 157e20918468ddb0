package domain

import "math"

// Number of cells in a fully filled result bar.
const barCells = 8

type Poll struct {
	ID      int64    `json:"id"`
	OwnerID int64    `json:"owner_id"`
	Topic   string   `json:"topic"`
	Answers []Answer `json:"answers"`
}

type Answer struct {
	ID       int64  `json:"id"`
	PollID   int64  `json:"poll_id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
	// Voters are the users currently voting for this answer, without duplicates.
	Voters []User `json:"voters"`
}

// Answer returns the answer with the given id, or nil if it does not belong to the poll.
func (p *Poll) Answer(id int64) *Answer {
	for i := range p.Answers {
		if p.Answers[i].ID == id {
			return &p.Answers[i]
		}
	}
	return nil
}

// TotalVoters counts distinct users with at least one vote in the poll.
// A user voting for several answers is counted once.
func (p *Poll) TotalVoters() int {
	seen := make(map[int64]struct{})
	for _, a := range p.Answers {
		for _, v := range a.Voters {
			seen[v.ID] = struct{}{}
		}
	}
	return len(seen)
}

func (a *Answer) VoterCount() int {
	return len(a.Voters)
}

// AnswerStats holds the numbers a chat view needs to draw one answer line.
type AnswerStats struct {
	VoterCount int     `json:"voter_count"`
	Share      float64 `json:"share"`
	// BarLength is 0 when nobody voted; the view then draws its empty glyph.
	BarLength  int `json:"bar_length"`
	Percentage int `json:"percentage"`
}

// Share is the answer's fraction of the poll's distinct voters, 0 when the poll has no voters.
func Share(voterCount, totalVoters int) float64 {
	if totalVoters == 0 {
		return 0
	}
	return float64(voterCount) / float64(totalVoters)
}

func BarLength(voterCount, totalVoters int) int {
	if voterCount == 0 {
		return 0
	}
	n := int(math.Floor(Share(voterCount, totalVoters) * barCells))
	return max(1, n)
}

func Percentage(voterCount, totalVoters int) int {
	return int(math.Floor(Share(voterCount, totalVoters) * 100))
}

func NewAnswerStats(voterCount, totalVoters int) AnswerStats {
	return AnswerStats{
		VoterCount: voterCount,
		Share:      Share(voterCount, totalVoters),
		BarLength:  BarLength(voterCount, totalVoters),
		Percentage: Percentage(voterCount, totalVoters),
	}
}

// Stats returns per-answer stats in answer order.
func (p *Poll) Stats() []AnswerStats {
	total := p.TotalVoters()
	stats := make([]AnswerStats, len(p.Answers))
	for i := range p.Answers {
		stats[i] = NewAnswerStats(p.Answers[i].VoterCount(), total)
	}
	return stats
}
