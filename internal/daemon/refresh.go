package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tilebar/internal/bar"
)

// DefaultRefreshInterval is used when no interval is configured.
const DefaultRefreshInterval = 200 * time.Millisecond

// Poster delivers events into the compositor queue.
type Poster func(ev bar.Event)

// BarCounter reports how many bars are currently managed.
type BarCounter func() int

// RefresherConfig holds configuration for the refresher.
type RefresherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Refresher periodically asks the compositor to redraw every bar so
// time-dependent components stay current.
type Refresher struct {
	interval time.Duration
	post     Poster
	bars     BarCounter
	logger   *slog.Logger
}

// NewRefresher creates a refresher that posts through post while bars
// reports at least one managed bar.
func NewRefresher(cfg RefresherConfig, post Poster, bars BarCounter) *Refresher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Refresher{
		interval: interval,
		post:     post,
		bars:     bars,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled or, once a bar has been seen, until no
// bars remain.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("refresher started", "interval", r.interval)

	seen := false
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return
		case <-ticker.C:
			if r.bars() == 0 {
				if seen {
					r.logger.Info("refresher stopped, no bars left")
					return
				}
				continue
			}
			seen = true
			r.post(bar.RedrawAll{})
		}
	}
}
