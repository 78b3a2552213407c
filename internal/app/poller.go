package app

import (
	"context"
	"time"

	"github.com/five82/wpstores/internal/site"
)

const (
	defaultPollInterval = time.Minute
	maxBackoff          = 10 * time.Minute
)

// StartPoller dispatches FetchSites every interval, backing off while the
// site store reports consecutive failures. The first dispatch happens after
// one interval. It returns immediately.
func (a *App) StartPoller(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			a.Dispatcher.Dispatch(site.FetchSitesAction{})
			failures := a.Sites.Snapshot().ConsecutiveFailures
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				a.Log.WithField("failures", failures).WithField("next", wait).Debug("site poll backing off")
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff. Intervals already above the cap are returned unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	wait := interval
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
