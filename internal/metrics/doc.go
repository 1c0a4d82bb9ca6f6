// Package metrics records build run and stage metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	svc := build.NewService(runner).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// A run started with --metrics-file exports its registry in the Prometheus
// text exposition format after the run finishes, success or failure, so CI
// can pick it up through the node exporter textfile collector.
package metrics
