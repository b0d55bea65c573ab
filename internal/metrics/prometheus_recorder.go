package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
	treeFetches     *prom.CounterVec
	commandResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.requests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "restyaboard",
			Name:      "api_requests_total",
			Help:      "Board service requests by method, route and status class",
		}, []string{"method", "route", "status"})
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "restyaboard",
			Name:      "api_request_duration_seconds",
			Help:      "Board service request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"})
		pr.treeFetches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "restyaboard",
			Name:      "tree_fetches_total",
			Help:      "Lazy tree fetches by level and result",
		}, []string{"level", "result"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "restyaboard",
			Name:      "command_results_total",
			Help:      "Command outcomes by status code",
		}, []string{"command", "status"})
		reg.MustRegister(pr.requests, pr.requestDuration, pr.treeFetches, pr.commandResults)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if p == nil || p.requests == nil {
		return
	}
	p.requests.WithLabelValues(method, route, StatusClass(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTreeFetch(level string, result ResultLabel) {
	if p == nil || p.treeFetches == nil {
		return
	}
	p.treeFetches.WithLabelValues(level, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCommandResult(command string, status int) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(command, strconv.Itoa(status)).Inc()
}
