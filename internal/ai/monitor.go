package ai

import (
	"context"
	"sync/atomic"
	"time"
)

// MonitorConfig configures stream monitoring behavior.
type MonitorConfig struct {
	InactivityTimeout time.Duration // no chunk for this long cancels the stream
	HardCap           time.Duration // absolute max stream duration (default 30m)
	TickInterval      time.Duration // interval between checks (default 2s, configurable for testing)
}

// Activity records when a stream last produced output. It is safe for
// concurrent use.
type Activity struct {
	last atomic.Int64
}

// NewActivity returns an Activity stamped with the current time.
func NewActivity() *Activity {
	a := &Activity{}
	a.Touch()
	return a
}

// Touch marks the stream as active now.
func (a *Activity) Touch() {
	a.last.Store(time.Now().UnixNano())
}

// Idle returns the time since the last Touch.
func (a *Activity) Idle() time.Duration {
	return time.Since(time.Unix(0, a.last.Load()))
}

// MonitorStream watches act and cancels the stream context if:
// - No output for InactivityTimeout (cause ErrStreamInactive)
// - Total runtime exceeds HardCap (cause ErrStreamHardCap)
// It returns when ctx is done.
func MonitorStream(ctx context.Context, cancel context.CancelCauseFunc, act *Activity, cfg MonitorConfig) {
	if cfg.HardCap == 0 {
		cfg.HardCap = 30 * time.Minute
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 2 * time.Second
	}

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Since(startTime) >= cfg.HardCap {
				cancel(ErrStreamHardCap)
				return
			}
			if cfg.InactivityTimeout > 0 && act.Idle() >= cfg.InactivityTimeout {
				cancel(ErrStreamInactive)
				return
			}
		}
	}
}
