package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExportsCompositorSeries(t *testing.T) {
	Frames.Inc()
	Events.WithLabelValues("draw").Inc()
	Bars.Set(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"tilebar_frames_total",
		"tilebar_draw_failures_total",
		"tilebar_clear_rects_total",
		`tilebar_events_total{kind="draw"}`,
		"tilebar_bars 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
