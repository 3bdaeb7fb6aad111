package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/foundry/core/metrics"
)

func TestInfluxSink_RecordSearch(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(data)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer func() { _ = sink.Close() }()
	now := time.Now()
	rec := coremetrics.SearchRecord{
		RunID: "r1", Economy: 2, Horizon: 24, Score: 12, Nodes: 100,
		Pruned: 10, Duplicates: 5, Capped: 3, Exhaustive: true,
		Elapsed: 1500 * time.Millisecond, Time: now,
	}
	require.NoError(t, sink.RecordSearch(rec))
	require.NoError(t, sink.RecordEvaluation(coremetrics.EvaluationRecord{
		RunID: "r1", Mode: "product", Horizon: 24, Instances: 1, Value: 12, Exhaustive: true, Time: now,
	}))

	p := write.NewPointWithMeasurement("search_result").
		AddTag("run_id", "r1").
		AddTag("economy", "2").
		AddTag("horizon", "24").
		AddTag("exhaustive", "true").
		AddField("score", 12).
		AddField("nodes", 100).
		AddField("pruned", 10).
		AddField("duplicates", 5).
		AddField("capped", 3).
		AddField("elapsed_ms", int64(1500)).
		SetTime(now)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)), bodies[0])
	assert.True(t, strings.HasPrefix(bodies[1], "evaluation,"))
	assert.Contains(t, bodies[1], "value=12i")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}
