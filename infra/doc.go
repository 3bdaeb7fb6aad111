// Package infra contains technical adapters: blueprint readers, the SQLite
// result store, MQTT publishing and metrics exporters. These packages should
// depend only on the interfaces defined in the core packages.
package infra
