// Package metrics exposes compositor counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Frames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tilebar",
		Name:      "frames_total",
		Help:      "Frames committed across all bars.",
	})
	DrawFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tilebar",
		Name:      "draw_failures_total",
		Help:      "Frames discarded because drawing or measurement failed.",
	})
	ClearRects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tilebar",
		Name:      "clear_rects_total",
		Help:      "Stale regions cleared while shrinking sections.",
	})
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilebar",
		Name:      "events_total",
		Help:      "Events processed by the compositor loop.",
	}, []string{"kind"})
	Bars = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tilebar",
		Name:      "bars",
		Help:      "Bars currently registered.",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
