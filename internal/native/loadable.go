package native

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
)

// DefaultPollInterval is the sleep between readiness checks in Wait.
const DefaultPollInterval = 10 * time.Millisecond

// Loadable is a resource whose readiness libspotify reports through an
// "is loaded" flag. Both methods read native state on every call; the flag
// is flipped by the session event pump and is never cached.
type Loadable interface {
	IsLoaded() bool
	// Err returns the resource's error state, or nil while it is fine or
	// still loading.
	Err() error
}

// WaitOptions configures Wait.
type WaitOptions struct {
	// Interval between checks. Defaults to DefaultPollInterval.
	Interval time.Duration

	// Pump, if set, is called before every check. It lets a waiter drive
	// sp_session_process_events itself when no event loop is running.
	Pump func() error

	// Gateway is only used to detect the deadlock hazard of waiting while
	// holding the call lock. Optional.
	Gateway *gateway.Gateway

	Logger *slog.Logger
}

// Wait blocks until l is loaded, reports an error, or ctx is done. A
// deadline expiring is reported as an error wrapping ErrTimeout.
//
// Wait never holds the gateway lock while sleeping: each check acquires and
// releases it through l's own methods. Calling Wait from a completion
// callback, where the lock is already held, starves the event pump and will
// time out.
func Wait(ctx context.Context, l Loadable, opts WaitOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Gateway != nil && opts.Gateway.HeldByCurrent() {
		log.Warn("waiting for a resource while holding the call lock; the event pump cannot run")
	}

	start := time.Now()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if opts.Pump != nil {
			if err := opts.Pump(); err != nil {
				log.Debug("event pump failed during wait", "error", err)
			}
		}

		loaded := l.IsLoaded()
		if err := l.Err(); err != nil {
			return err
		}
		if loaded {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s", ErrTimeout, time.Since(start).Round(time.Millisecond))
			}
			return ctx.Err()
		case <-timer.C:
			timer.Reset(interval)
		}
	}
}

// WaitTimeout is Wait with a wall-clock timeout. A timeout <= 0 waits until
// the resource loads or fails.
func WaitTimeout(l Loadable, timeout time.Duration, opts WaitOptions) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Wait(ctx, l, opts)
}
