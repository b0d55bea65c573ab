package shell

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/metrics"
	"git.home.luguber.info/inful/restyaboard/internal/server/middleware"
)

// startMetrics serves /metrics on Options.MetricsAddr until the returned stop func runs.
func (s *Shell) startMetrics() func() {
	if s.opts.MetricsAddr == "" || s.app.MetricsRegistry == nil {
		return func() {}
	}
	ln, err := net.Listen("tcp", s.opts.MetricsAddr)
	if err != nil {
		s.logger.Warn("Metrics endpoint disabled", logfields.Error(err))
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(s.app.MetricsRegistry))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Handler: middleware.Chain(s.logger)(mux), ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server error", logfields.Error(err))
		}
	}()
	s.metricsURL = "http://" + ln.Addr().String()
	s.logger.Info("Serving metrics", logfields.URL(s.metricsURL+"/metrics"))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}
}
