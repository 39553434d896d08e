/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package predict

import (
	"context"
	"sync"
	"time"

	"github.com/humaidq/medidash/logging"
)

// Status represents service availability as seen by the monitor.
type Status string

const (
	StatusChecking Status = "checking"
	StatusReady    Status = "ready"
	StatusNotReady Status = "not-ready"
)

// DefaultPollInterval is the cadence between automatic health probes.
const DefaultPollInterval = 30 * time.Second

var monitorLogger = logging.Logger(logging.SourceMonitor)

// HealthChecker is the probe the monitor polls. *Client satisfies it.
type HealthChecker interface {
	CheckHealth(ctx context.Context) bool
}

// Monitor continuously tracks whether the prediction service is reachable,
// independent of any specific prediction request. A single goroutine owns one
// repeating timer, so there is never more than one probe in flight; Retry
// cancels the pending tick and re-schedules the cadence from the retry
// moment.
type Monitor struct {
	checker  HealthChecker
	interval time.Duration

	mu     sync.RWMutex
	status Status

	retry chan struct{}
	done  chan struct{}
}

// NewMonitor creates a stopped monitor. A non-positive interval selects
// DefaultPollInterval.
func NewMonitor(checker HealthChecker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		status:   StatusChecking,
		retry:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. The loop probes immediately, then on every
// interval tick, and tears down when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go m.run(ctx)
}

// Status returns the current availability state. It is always one of the
// three values; every probe fully recomputes it.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Retry forces an immediate re-check outside the normal cadence. The signal
// is coalesced: if a probe is already pending or in flight, at most one extra
// probe runs.
func (m *Monitor) Retry() {
	select {
	case m.retry <- struct{}{}:
	default:
	}
}

// Done is closed once the polling loop has fully stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	m.check(ctx)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			m.check(ctx)
			timer.Reset(m.interval)
		case <-m.retry:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			m.check(ctx)
			timer.Reset(m.interval)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	m.setStatus(StatusChecking)

	if m.checker.CheckHealth(ctx) {
		m.setStatus(StatusReady)
		return
	}

	monitorLogger.Warn("Prediction service unavailable")
	m.setStatus(StatusNotReady)
}

func (m *Monitor) setStatus(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}
