// Package lifecycle sequences the startup and shutdown work of the
// service's long-lived systems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Coordinator runs startup hooks concurrently, tracks whether they all
// succeeded, and releases shutdown hooks when Shutdown cancels its context.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  errgroup.Group
	shutdown sync.WaitGroup

	mu           sync.Mutex
	shutdownErrs []error

	ready atomic.Bool
}

// New creates a Coordinator whose context is cancelled by Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in the background. A non-nil error keeps the
// coordinator from reporting ready.
func (c *Coordinator) OnStartup(fn func() error) {
	c.startup.Go(fn)
}

// OnShutdown runs fn in the background. fn should block on
// <-c.Context().Done() before releasing its resources.
func (c *Coordinator) OnShutdown(fn func() error) {
	c.shutdown.Go(func() {
		if err := fn(); err != nil {
			c.mu.Lock()
			c.shutdownErrs = append(c.shutdownErrs, err)
			c.mu.Unlock()
		}
	})
}

// Ready reports whether every startup hook has returned without error.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until the startup hooks finish and returns the
// first error any of them reported.
func (c *Coordinator) WaitForStartup() error {
	err := c.startup.Wait()
	c.ready.Store(err == nil)
	return err
}

// Shutdown cancels the context and waits up to timeout for the shutdown
// hooks, returning their joined errors.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.shutdownErrs...)
}
