// Package signal provides signal handling for graceful shutdown of a
// generation session.
//
// SetupSignalHandler registers handlers for SIGINT and SIGTERM. On the first
// signal it runs the interrupt callback and cancels the session context with
// ErrInterrupted as the cause, so the host can tell a user interrupt apart
// from other cancellations and persist a resumable snapshot.
package signal

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is the context cause set when a signal arrives.
var ErrInterrupted = errors.New("interrupted by signal")

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls onInterrupt (if non-nil) with the
// signal, then cancels the context with ErrInterrupted.
//
// The listening goroutine terminates when either a signal is received or
// ctx is done. The returned stop function unregisters the handler.
//
// Example usage:
//
//	ctx, cancel := context.WithCancelCause(context.Background())
//	defer cancel(nil)
//	stop := signal.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
//	    logging.Warn("received " + sig.String() + ", saving session...")
//	})
//	defer stop()
func SetupSignalHandler(ctx context.Context, cancel context.CancelCauseFunc, onInterrupt func(os.Signal)) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel(ErrInterrupted)
		case <-ctx.Done():
			return
		}
	}()

	return func() { signal.Stop(sigCh) }
}

// Interrupted reports whether ctx was cancelled by a signal.
func Interrupted(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrInterrupted)
}
