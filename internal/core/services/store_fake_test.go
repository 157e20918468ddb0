package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

var errStoreDown = errors.Join(domain.ErrStoreUnavailable, errors.New("connection refused"))

// memStore keeps everything behind one mutex; WithinTx holds it for the whole callback,
// which gives the same all-or-nothing behaviour as a serializable store.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]domain.User
	polls        map[int64]domain.Poll
	votes        []domain.Vote
	drafts       map[int64]domain.Draft
	nextPollID   int64
	nextAnswerID int64
	failWrites   bool
}

type txKey struct{}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]domain.User{},
		polls:  map[int64]domain.Poll{},
		drafts: map[int64]domain.Draft{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	users, polls, drafts := cloneMap(m.users), cloneMap(m.polls), cloneMap(m.drafts)
	votes := append([]domain.Vote(nil), m.votes...)
	pollID, answerID := m.nextPollID, m.nextAnswerID

	err := fn(context.WithValue(ctx, txKey{}, true))

	if err != nil {
		m.users, m.polls, m.drafts, m.votes = users, polls, drafts, votes
		m.nextPollID, m.nextAnswerID = pollID, answerID
	}
	return err
}

// lock is a no-op inside WithinTx, which already holds the mutex.
func (m *memStore) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *memStore) Upsert(ctx context.Context, user *domain.User) error {
	defer m.lock(ctx)()
	if m.failWrites {
		return errStoreDown
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	defer m.lock(ctx)()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memPolls struct{ *memStore }

func (m memPolls) Save(ctx context.Context, poll *domain.Poll) error {
	defer m.lock(ctx)()
	if m.failWrites {
		return errStoreDown
	}
	m.nextPollID++
	poll.ID = m.nextPollID
	stored := *poll
	stored.Answers = make([]domain.Answer, len(poll.Answers))
	for i := range poll.Answers {
		m.nextAnswerID++
		poll.Answers[i].ID = m.nextAnswerID
		poll.Answers[i].PollID = poll.ID
		stored.Answers[i] = poll.Answers[i]
		stored.Answers[i].Voters = nil
	}
	m.polls[poll.ID] = stored
	return nil
}

func (m memPolls) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	defer m.lock(ctx)()
	return m.hydrate(id), nil
}

func (m memPolls) hydrate(id int64) *domain.Poll {
	stored, ok := m.polls[id]
	if !ok {
		return nil
	}
	poll := stored
	poll.Answers = make([]domain.Answer, len(stored.Answers))
	for i, a := range stored.Answers {
		a.Voters = []domain.User{}
		for _, v := range m.votes {
			if v.AnswerID == a.ID {
				a.Voters = append(a.Voters, m.users[v.UserID])
			}
		}
		poll.Answers[i] = a
	}
	return &poll
}

func (m memPolls) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Poll, error) {
	return m.SearchByTopic(ctx, ownerID, "", limit)
}

func (m memPolls) SearchByTopic(ctx context.Context, ownerID int64, query string, limit int) ([]*domain.Poll, error) {
	defer m.lock(ctx)()
	var ids []int64
	for id, p := range m.polls {
		if p.OwnerID == ownerID && strings.Contains(p.Topic, query) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	polls := []*domain.Poll{}
	for _, id := range ids {
		polls = append(polls, m.hydrate(id))
	}
	return polls, nil
}

type memVotes struct{ *memStore }

func (m memVotes) Toggle(ctx context.Context, vote domain.Vote) (bool, error) {
	defer m.lock(ctx)()
	if m.failWrites {
		return false, errStoreDown
	}
	poll, ok := m.polls[vote.PollID]
	if !ok || poll.Answer(vote.AnswerID) == nil {
		return false, domain.ErrPollNotFound
	}
	for i, v := range m.votes {
		if v.UserID == vote.UserID && v.AnswerID == vote.AnswerID {
			m.votes = append(m.votes[:i], m.votes[i+1:]...)
			return false, nil
		}
	}
	m.votes = append(m.votes, vote)
	return true, nil
}

type memDrafts struct{ *memStore }

func (m memDrafts) Lock(ctx context.Context, userID int64) (*domain.Draft, error) {
	return m.Get(ctx, userID)
}

func (m memDrafts) Get(ctx context.Context, userID int64) (*domain.Draft, error) {
	defer m.lock(ctx)()
	d, ok := m.drafts[userID]
	if !ok {
		return nil, nil
	}
	d.Answers = append([]string{}, d.Answers...)
	return &d, nil
}

func (m memDrafts) Save(ctx context.Context, draft *domain.Draft) error {
	defer m.lock(ctx)()
	if m.failWrites {
		return errStoreDown
	}
	d := *draft
	d.Answers = append([]string{}, draft.Answers...)
	m.drafts[draft.UserID] = d
	return nil
}

func (m memDrafts) Delete(ctx context.Context, userID int64) error {
	defer m.lock(ctx)()
	if m.failWrites {
		return errStoreDown
	}
	delete(m.drafts, userID)
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
