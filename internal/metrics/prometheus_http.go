package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/restyaboard/internal/version"
)

// NewRegistry returns a registry with the Go runtime, process and build info
// collectors already registered.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	buildInfo := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "restyaboard",
		Name:      "build_info",
		Help:      "Build metadata; always 1",
	}, []string{"version", "commit"})
	buildInfo.WithLabelValues(version.Version, version.GitCommit).Set(1)
	reg.MustRegister(
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
		buildInfo,
	)
	return reg
}

// HTTPHandler serves the metrics of reg; nil falls back to the global registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg, EnableOpenMetrics: true})
}
