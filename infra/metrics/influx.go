package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/foundry/core/metrics"
	"github.com/kilianp07/foundry/infra/logger"
)

// InfluxSink writes search results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the URL is empty or the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	if url == "" {
		logger.New("influx-sink").Warnf("influx url not set, metrics disabled")
		return coremetrics.NopSink{}
	}
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSearch writes one search_result point.
func (s *InfluxSink) RecordSearch(rec coremetrics.SearchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, searchPoint(rec))
}

// RecordEvaluation writes one evaluation point.
func (s *InfluxSink) RecordEvaluation(rec coremetrics.EvaluationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, evaluationPoint(rec))
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func searchPoint(rec coremetrics.SearchRecord) *write.Point {
	return write.NewPointWithMeasurement("search_result").
		AddTag("run_id", rec.RunID).
		AddTag("economy", strconv.Itoa(rec.Economy)).
		AddTag("horizon", strconv.Itoa(rec.Horizon)).
		AddTag("exhaustive", strconv.FormatBool(rec.Exhaustive)).
		AddField("score", rec.Score).
		AddField("nodes", rec.Nodes).
		AddField("pruned", rec.Pruned).
		AddField("duplicates", rec.Duplicates).
		AddField("capped", rec.Capped).
		AddField("elapsed_ms", rec.Elapsed.Milliseconds()).
		SetTime(rec.Time)
}

func evaluationPoint(rec coremetrics.EvaluationRecord) *write.Point {
	return write.NewPointWithMeasurement("evaluation").
		AddTag("run_id", rec.RunID).
		AddTag("mode", rec.Mode).
		AddTag("horizon", strconv.Itoa(rec.Horizon)).
		AddTag("exhaustive", strconv.FormatBool(rec.Exhaustive)).
		AddField("value", rec.Value).
		AddField("instances", rec.Instances).
		AddField("elapsed_ms", rec.Elapsed.Milliseconds()).
		SetTime(rec.Time)
}
