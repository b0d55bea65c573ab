package metrics

import "time"

// ResultLabel enumerates fetch outcomes for counters.
type ResultLabel string

const (
	ResultOK      ResultLabel = "ok"
	ResultEmpty   ResultLabel = "empty"
	ResultFailed  ResultLabel = "failed"
	ResultDropped ResultLabel = "dropped" // response arrived after the cache was invalidated
)

// Recorder defines observability hooks for API calls and the tree cache.
type Recorder interface {
	// ObserveRequest records one HTTP round trip. status is 0 for transport failures.
	ObserveRequest(method, route string, status int, d time.Duration)
	// IncTreeFetch counts lazy fetches per tree level (boards, lists, cards).
	IncTreeFetch(level string, result ResultLabel)
	// IncCommandResult counts action outcomes by numeric status code.
	IncCommandResult(command string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, string, int, time.Duration) {}
func (NoopRecorder) IncTreeFetch(string, ResultLabel)                 {}
func (NoopRecorder) IncCommandResult(string, int)                     {}

// StatusClass maps an HTTP status code to a low-cardinality label.
func StatusClass(status int) string {
	switch {
	case status <= 0:
		return "error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
