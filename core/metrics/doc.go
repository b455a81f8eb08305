// Package metrics exposes Prometheus instrumentation for the reference layer.
//
// Counters cover the two hot paths: URL resolution cache effectiveness and
// job polling activity. All collectors are registered on the default registry
// and served by the promhttp handler mounted in cmd/start.
package metrics
