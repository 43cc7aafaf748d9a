package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"feedsanity/internal/progress"
)

// PrometheusSink exports digest run progress via Prometheus. It owns all
// collectors for runs started/completed/active and per-kind feed counters.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runsActive    prometheus.Gauge
	runDuration   prometheus.Histogram

	feedsCompleted *prometheus.CounterVec
	feedDuration   *prometheus.HistogramVec
	itemsProduced  *prometheus.CounterVec

	tracker *runTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsanity_runs_started_total",
			Help: "Total digest runs that have started.",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsanity_runs_completed_total",
			Help: "Total digest runs that have completed.",
		}),
		runsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feedsanity_runs_active",
			Help: "Current number of running digest runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedsanity_run_duration_seconds",
			Help:    "Wall time per completed digest run.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		feedsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsanity_run_feeds_total",
			Help: "Feed completions partitioned by kind and result.",
		}, []string{"kind", "result"}),
		feedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedsanity_feed_duration_seconds",
			Help:    "Per-feed processing duration partitioned by result.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"result"}),
		itemsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsanity_run_items_total",
			Help: "Artifacts produced (panels, articles) partitioned by kind.",
		}, []string{"kind"}),
		tracker: newRunTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsActive,
		s.runDuration,
		s.feedsCompleted,
		s.feedDuration,
		s.itemsProduced,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch. It is
// safe for concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart, progress.StageRunDone:
		s.handleRunEvent(evt)
	case progress.StageFeedDone, progress.StageFeedError:
		s.handleFeedEvent(evt)
	case progress.StageItemDone:
		if evt.Items > 0 {
			s.itemsProduced.WithLabelValues(kindLabel(evt.Kind)).Add(float64(evt.Items))
		}
	}
}

func (s *PrometheusSink) handleRunEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
		if s.tracker.start(evt.RunID) {
			s.runsActive.Inc()
		}
	case progress.StageRunDone:
		s.runsCompleted.Inc()
		if evt.Dur > 0 {
			s.runDuration.Observe(evt.Dur.Seconds())
		}
		if s.tracker.complete(evt.RunID) {
			s.runsActive.Dec()
		}
	}
}

func (s *PrometheusSink) handleFeedEvent(evt progress.Event) {
	result := "ok"
	if evt.Stage == progress.StageFeedError {
		result = "error"
	}
	s.feedsCompleted.WithLabelValues(kindLabel(evt.Kind), result).Inc()
	if evt.Dur > 0 {
		s.feedDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

func kindLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}

type runTracker struct {
	mu      sync.Mutex
	running map[[16]byte]struct{}
}

func newRunTracker() *runTracker {
	return &runTracker{running: make(map[[16]byte]struct{})}
}

func (t *runTracker) start(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; ok {
		return false
	}
	t.running[id] = struct{}{}
	return true
}

func (t *runTracker) complete(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; !ok {
		return false
	}
	delete(t.running, id)
	return true
}
