package metrics

// Package metrics defines the records emitted for every searched economy and
// every finished evaluation, and the Sink interface that persists them.
// Implementations such as the Prometheus, InfluxDB and MQTT sinks live in
// infra and register themselves with RegisterSink. NewSink returns a
// MultiSink automatically when several sinks are configured.
