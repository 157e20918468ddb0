package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricVoteToggles      = "pollbot_vote_toggles_total"
	MetricToggleDuration   = "pollbot_vote_toggle_duration_seconds"
	MetricDraftTransitions = "pollbot_draft_transitions_total"
	MetricPollsCreated     = "pollbot_polls_created_total"
)

// Outcome label used when the core returned an error instead of a result.
const labelError = "error"

type MetricService struct {
	registry         *prometheus.Registry
	voteToggles      *prometheus.CounterVec
	toggleDuration   prometheus.Histogram
	draftTransitions *prometheus.CounterVec
	pollsCreated     *prometheus.CounterVec
}

func NewMetricService() *MetricService {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricService{
		registry: reg,
		voteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricVoteToggles,
			Help: "Vote toggles by outcome",
		}, []string{"outcome"}),
		toggleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricToggleDuration,
			Help:    "Duration of a vote toggle including the poll reload",
			Buckets: prometheus.DefBuckets,
		}),
		draftTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricDraftTransitions,
			Help: "Draft transitions by operation and resulting state",
		}, []string{"operation", "state"}),
		pollsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPollsCreated,
			Help: "Polls published, by the path that created them",
		}, []string{"source"}),
	}
	reg.MustRegister(m.voteToggles, m.toggleDuration, m.draftTransitions, m.pollsCreated)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
