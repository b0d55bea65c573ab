// Package metrics provides observability hooks for board service calls, tree
// fetches and command outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs nil checks:
//
//	client := restya.NewClient(creds, reporter, restya.WithRecorder(recorder))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry;
// HTTPHandler exposes that registry for scraping (the interactive shell serves
// it when --metrics-addr is set).
package metrics
