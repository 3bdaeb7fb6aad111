package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/foundry/core/metrics"
)

// PromSink records search outcomes in Prometheus metrics.
type PromSink struct {
	searches  *prometheus.CounterVec
	nodes     *prometheus.CounterVec
	pruned    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	score     *prometheus.GaugeVec
	aggregate *prometheus.GaugeVec
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_searches_total",
			Help: "Completed economy searches",
		}, []string{"exhaustive"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_search_nodes_total",
			Help: "States expanded by economy searches",
		}, []string{"economy"}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_search_pruned_total",
			Help: "States discarded by pruning filter",
		}, []string{"economy", "filter"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foundry_search_duration_seconds",
			Help:    "Wall-clock duration of one economy search",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"horizon"}),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foundry_search_score",
			Help: "Best terminal stock of the last search per economy",
		}, []string{"economy", "horizon"}),
		aggregate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "foundry_evaluation_value",
			Help: "Aggregated value of the last evaluation",
		}, []string{"mode", "horizon"}),
	}
	var err error
	if s.searches, err = register(reg, s.searches); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, s.nodes); err != nil {
		return nil, err
	}
	if s.pruned, err = register(reg, s.pruned); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.score, err = register(reg, s.score); err != nil {
		return nil, err
	}
	if s.aggregate, err = register(reg, s.aggregate); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same type.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSearch updates counters, duration and score for one search.
func (s *PromSink) RecordSearch(rec coremetrics.SearchRecord) error {
	id := strconv.Itoa(rec.Economy)
	horizon := strconv.Itoa(rec.Horizon)
	s.searches.WithLabelValues(strconv.FormatBool(rec.Exhaustive)).Inc()
	s.nodes.WithLabelValues(id).Add(float64(rec.Nodes))
	s.pruned.WithLabelValues(id, "bound").Add(float64(rec.Pruned))
	s.pruned.WithLabelValues(id, "dedup").Add(float64(rec.Duplicates))
	s.pruned.WithLabelValues(id, "rate_cap").Add(float64(rec.Capped))
	s.duration.WithLabelValues(horizon).Observe(rec.Elapsed.Seconds())
	s.score.WithLabelValues(id, horizon).Set(float64(rec.Score))
	return nil
}

// RecordEvaluation sets the aggregate gauge.
func (s *PromSink) RecordEvaluation(rec coremetrics.EvaluationRecord) error {
	s.aggregate.WithLabelValues(rec.Mode, strconv.Itoa(rec.Horizon)).Set(float64(rec.Value))
	return nil
}
