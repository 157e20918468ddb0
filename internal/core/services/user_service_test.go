package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollbot/internal/core/domain"
)

func TestUserUpsertRefreshesDisplayFields(t *testing.T) {
	ts := newTestServices(DefaultMaxAnswers)
	ctx := context.Background()

	require.NoError(t, ts.users.Upsert(ctx, alice))
	require.NoError(t, ts.users.Upsert(ctx, alice))

	renamed := alice
	renamed.FirstName = "Alicia"
	renamed.Username = "alicia"
	require.NoError(t, ts.users.Upsert(ctx, renamed))

	user, err := ts.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, *user)
	assert.Len(t, ts.store.users, 1)
}

func TestUserGetUnknown(t *testing.T) {
	ts := newTestServices(DefaultMaxAnswers)

	user, err := ts.users.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserUpsertStoreDown(t *testing.T) {
	ts := newTestServices(DefaultMaxAnswers)
	ts.store.failWrites = true

	err := ts.users.Upsert(context.Background(), bob)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
