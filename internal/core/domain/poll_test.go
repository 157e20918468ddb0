package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalVotersCountsDistinctUsers(t *testing.T) {
	alice := User{ID: 1, FirstName: "Alice"}
	bob := User{ID: 2, FirstName: "Bob"}

	poll := &Poll{Answers: []Answer{
		{ID: 10, Voters: []User{alice}},
		{ID: 11, Voters: []User{alice}},
	}}
	assert.Equal(t, 1, poll.TotalVoters())

	poll.Answers[1].Voters = append(poll.Answers[1].Voters, bob)
	assert.Equal(t, 2, poll.TotalVoters())
}

func TestAnswerLookup(t *testing.T) {
	poll := &Poll{Answers: []Answer{{ID: 10, Text: "A"}, {ID: 11, Text: "B"}}}

	assert.Equal(t, "B", poll.Answer(11).Text)
	assert.Nil(t, poll.Answer(12))
}

func TestAnswerStats(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		total      int
		share      float64
		bar        int
		percentage int
	}{
		{name: "no voters at all", count: 0, total: 0, share: 0, bar: 0, percentage: 0},
		{name: "answer without voters", count: 0, total: 5, share: 0, bar: 0, percentage: 0},
		{name: "three of four", count: 3, total: 4, share: 0.75, bar: 6, percentage: 75},
		{name: "everybody", count: 4, total: 4, share: 1, bar: 8, percentage: 100},
		{name: "small share still draws a cell", count: 1, total: 20, share: 0.05, bar: 1, percentage: 5},
		{name: "one of three", count: 1, total: 3, share: 1.0 / 3.0, bar: 2, percentage: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := NewAnswerStats(tt.count, tt.total)
			assert.InDelta(t, tt.share, stats.Share, 1e-9)
			assert.Equal(t, tt.bar, stats.BarLength)
			assert.Equal(t, tt.percentage, stats.Percentage)
			assert.Equal(t, tt.count, stats.VoterCount)
		})
	}
}

func TestPollStatsUsesDistinctTotal(t *testing.T) {
	alice := User{ID: 1}
	poll := &Poll{Answers: []Answer{
		{ID: 10, Voters: []User{alice}},
		{ID: 11, Voters: []User{alice}},
		{ID: 12},
	}}

	stats := poll.Stats()
	assert.Equal(t, 100, stats[0].Percentage)
	assert.Equal(t, 100, stats[1].Percentage)
	assert.Equal(t, 0, stats[2].BarLength)
}

func TestPollStatisticsOmitsEmptyFields(t *testing.T) {
	poll := &Poll{ID: 7, Topic: "Lunch?", Answers: []Answer{
		{ID: 10, Text: "Pizza", Voters: []User{{ID: 1, FirstName: "Alice"}, {ID: 2, FirstName: "Bob", Username: "bob"}}},
		{ID: 11, Text: "Sushi"},
	}}

	stats := NewPollStatistics(poll)

	assert.Equal(t, int64(7), stats.PollID)
	assert.Len(t, stats.Answers, 2)
	assert.Equal(t, 2, stats.Answers[0].Voters.Total)
	assert.Equal(t, VoterIdentity{ID: 1, FirstName: "Alice"}, stats.Answers[0].Voters.List[0])
	assert.Equal(t, "bob", stats.Answers[0].Voters.List[1].Username)
	assert.Equal(t, 0, stats.Answers[1].Voters.Total)
	assert.Empty(t, stats.Answers[1].Voters.List)
}
