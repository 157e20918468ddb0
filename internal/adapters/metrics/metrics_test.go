package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollbot/internal/core/domain"
	"github.com/vncsmyrnk/pollbot/internal/core/ports"
)

type stubVotes struct {
	result *domain.ToggleResult
	err    error
}

func (s stubVotes) Toggle(context.Context, ports.ToggleInput) (*domain.ToggleResult, error) {
	return s.result, s.err
}

type stubDrafts struct {
	ports.DraftService
	result *domain.DraftResult
	err    error
}

func (s stubDrafts) AddAnswer(context.Context, int64, string) (*domain.DraftResult, error) {
	return s.result, s.err
}

func (s stubDrafts) Finalize(context.Context, int64) (*domain.DraftResult, error) {
	return s.result, s.err
}

func TestInstrumentVotesCountsOutcomes(t *testing.T) {
	m := NewMetricService()
	ctx := context.Background()

	voted := m.InstrumentVotes(stubVotes{result: &domain.ToggleResult{Outcome: domain.ToggleVoted}})
	_, err := voted.Toggle(ctx, ports.ToggleInput{})
	require.NoError(t, err)
	_, _ = voted.Toggle(ctx, ports.ToggleInput{})

	failing := m.InstrumentVotes(stubVotes{err: domain.ErrStoreUnavailable})
	_, err = failing.Toggle(ctx, ports.ToggleInput{})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.voteToggles.WithLabelValues("voted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.voteToggles.WithLabelValues(labelError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.toggleDuration, MetricToggleDuration))
}

func TestInstrumentDraftsLabelsState(t *testing.T) {
	m := NewMetricService()
	ctx := context.Background()

	committed := m.InstrumentDrafts(stubDrafts{result: &domain.DraftResult{State: domain.DraftCommitted}})
	_, err := committed.Finalize(ctx, 1)
	require.NoError(t, err)

	invalid := m.InstrumentDrafts(stubDrafts{err: errors.Join(domain.ErrInvalidTransition)})
	_, err = invalid.AddAnswer(ctx, 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.draftTransitions.WithLabelValues("finalize", "COMMITTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.draftTransitions.WithLabelValues("add_answer", "invalid_transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollsCreated.WithLabelValues("draft")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetricService()
	_, _ = m.InstrumentVotes(stubVotes{result: &domain.ToggleResult{Outcome: domain.ToggleUnvoted}}).
		Toggle(context.Background(), ports.ToggleInput{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pollbot_vote_toggles_total{outcome="unvoted"} 1`)
}
