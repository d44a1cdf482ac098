package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Interrupt is a context cancelled by SIGINT or SIGTERM that remembers which
// signal arrived, so long-running commands can log why they stopped.
type Interrupt struct {
	context.Context

	cancel context.CancelFunc
	mu     sync.Mutex
	sig    os.Signal
}

// OnInterrupt derives an Interrupt from parent. Call Stop when the command returns.
func OnInterrupt(parent context.Context) *Interrupt {
	ctx, cancel := context.WithCancel(parent)
	in := &Interrupt{Context: ctx, cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			in.mu.Lock()
			in.sig = sig
			in.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return in
}

// Stop cancels the context and releases the signal subscription.
func (in *Interrupt) Stop() {
	in.cancel()
}

// Signal returns the signal that cancelled the context, or nil.
func (in *Interrupt) Signal() os.Signal {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.sig
}
