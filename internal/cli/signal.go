package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()

	mu     sync.Mutex
	sigVal os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return watchSignals(parent, sigCh, func() { signal.Stop(sigCh) })
}

// watchSignals cancels the context on the first value from sigCh and calls stop
// once the context is done, whatever the cause.
func watchSignals(parent context.Context, sigCh <-chan os.Signal, stop func()) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	go func() {
		defer stop()
		select {
		case sig := <-sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogInterrupt records on logger which signal stopped the command, if any.
func (sc *SignalContext) LogInterrupt(logger *slog.Logger) {
	if sig := sc.Signal(); sig != nil {
		logger.Info("interrupted", "signal", sig.String())
	}
}
