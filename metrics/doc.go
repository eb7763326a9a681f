// Package metrics exports per-run counters for enc in Prometheus text format.
//
// A Recorder owns a private registry, so it never touches the global
// default registry and can be created once per test:
//
//	rec := metrics.New()
//	rec.ObserveRun("google", "gemini-2.5-pro", usage, breakdown, elapsed)
//	err := rec.WriteTextfile("enc.prom")
//
// The textfile layout is the one node_exporter's textfile collector reads.
package metrics
