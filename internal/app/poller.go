package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/margin/internal/state"
	"github.com/five82/margin/internal/tracker"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 5 * time.Minute
)

// Poller refreshes the heartbeat store in the background. While the backend
// keeps failing, the wait between polls doubles up to maxBackoff.
type Poller struct {
	client   *tracker.Client
	store    *state.Store
	logger   *slog.Logger
	interval time.Duration
	wake     chan struct{}
}

// NewPoller returns a poller for store. A non-positive interval uses the
// default.
func NewPoller(client *tracker.Client, store *state.Store, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:   client,
		store:    store,
		logger:   logger,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the polling goroutine and returns immediately. It stops
// when ctx is cancelled. If the store already holds a poll result, the
// first poll waits as if that result came from the loop.
func (p *Poller) Start(ctx context.Context) {
	go p.loop(ctx)
}

// Wake asks for an immediate refresh. It never blocks; wakes requested while
// one is already pending are merged.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context) {
	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-p.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		p.Refresh(ctx)
		timer.Reset(p.nextDelay())
	}
}

// nextDelay is zero before the first poll and the backoff for the current
// failure count afterwards.
func (p *Poller) nextDelay() time.Duration {
	snap := p.store.Snapshot()
	if snap.LastUpdated.IsZero() {
		return 0
	}
	return calculateBackoff(snap.ConsecutiveFailures, p.interval)
}

// Refresh fetches the all-time basic stats and the available wrapped years
// concurrently and records the outcome in the store.
func (p *Poller) Refresh(ctx context.Context) {
	var (
		stats tracker.BasicStats
		years []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = p.client.Stats().Basic(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		years, err = p.client.Wrapped().AvailableYears(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.store.Update(nil, nil, err)
		p.logger.Warn("heartbeat poll failed",
			slog.String("error", err.Error()),
			slog.Int("failures", p.store.Snapshot().ConsecutiveFailures),
		)
		return
	}
	p.store.Update(&stats, years, nil)
	p.logger.Debug("heartbeat poll ok", slog.Int("years", len(years)))
}

// calculateBackoff returns the wait before the next poll after the given
// number of consecutive failures.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
