package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

var (
	owner = domain.User{ID: 100, FirstName: "Olga", Username: "olga"}
	alice = domain.User{ID: 1, FirstName: "Alice"}
	bob   = domain.User{ID: 2, FirstName: "Bob", LastName: "Builder"}
)

type testServices struct {
	store  *memStore
	polls  ports.PollService
	votes  ports.VoteService
	drafts ports.DraftService
	users  ports.UserService
}

func newTestServices(maxAnswers int) *testServices {
	store := newMemStore()
	polls := memPolls{store}
	return &testServices{
		store:  store,
		polls:  NewPollService(store, polls, store),
		votes:  NewVoteService(store, polls, memVotes{store}, store),
		drafts: NewDraftService(store, memDrafts{store}, polls, store, maxAnswers),
		users:  NewUserService(store),
	}
}

func (ts *testServices) createPoll(t *testing.T, topic string, answers ...string) *domain.Poll {
	t.Helper()
	poll, err := ts.polls.Create(context.Background(), ports.CreatePollInput{Owner: owner, Topic: topic, Answers: answers})
	require.NoError(t, err)
	return poll
}

func answerTexts(p *domain.Poll) []string {
	texts := make([]string, len(p.Answers))
	for i, a := range p.Answers {
		texts[i] = a.Text
	}
	return texts
}

func voterIDs(a domain.Answer) []int64 {
	ids := make([]int64, len(a.Voters))
	for i, v := range a.Voters {
		ids[i] = v.ID
	}
	return ids
}
