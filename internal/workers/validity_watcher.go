// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package workers

import (
	"context"
	"sync"
	"time"
)

// CapabilityStatus is the read side of the capability manager the watcher
// polls. Satisfied by *capability.Manager.
type CapabilityStatus interface {
	IsValid(namespace string) bool
}

// ValidityWatcher polls capability validity for one namespace and notifies
// the UI-facing callback whenever the state flips. Protocol operations do not
// depend on this watcher; they recheck validity lazily at call time. The
// watcher exists so client-visible "session active" indicators flip promptly.
type ValidityWatcher struct {
	status    CapabilityStatus
	namespace string
	interval  time.Duration
	onChange  func(valid bool)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewValidityWatcher creates a watcher that is idle until Start or Run is
// called. interval values of zero or less default to one second, the fastest
// cadence the protocol requires.
func NewValidityWatcher(status CapabilityStatus, namespace string, interval time.Duration, onChange func(valid bool)) *ValidityWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &ValidityWatcher{
		status:    status,
		namespace: namespace,
		interval:  interval,
		onChange:  onChange,
	}
}

// Run implements [Worker]. It starts polling with a background context.
func (w *ValidityWatcher) Run() {
	w.Start(context.Background())
}

// Start launches the polling goroutine. Any previously running poller is
// stopped before the new one begins. The callback fires once with the
// current state, then again on every change. The goroutine exits when ctx is
// cancelled or Stop is called.
func (w *ValidityWatcher) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		last := w.status.IsValid(w.namespace)
		w.notify(last)

		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-watchCtx.Done():
				return
			case <-t.C:
				if current := w.status.IsValid(w.namespace); current != last {
					last = current
					w.notify(current)
				}
			}
		}
	}()
}

// Stop signals the polling goroutine to exit and blocks until it has fully
// terminated. Safe to call when the watcher is not running.
func (w *ValidityWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *ValidityWatcher) notify(valid bool) {
	if w.onChange != nil {
		w.onChange(valid)
	}
}
