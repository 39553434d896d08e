// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package predict

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeChecker struct {
	mu      sync.Mutex
	healthy bool
	calls   int
}

func (f *fakeChecker) CheckHealth(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.healthy
}

func (f *fakeChecker) setHealthy(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthy = v
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitForStatus(t *testing.T, m *Monitor, want Status) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("status never became %q, still %q", want, m.Status())
}

func TestMonitorInitialStatusIsChecking(t *testing.T) {
	t.Parallel()

	m := NewMonitor(&fakeChecker{}, time.Hour)
	if got := m.Status(); got != StatusChecking {
		t.Fatalf("Status() = %q before Start, want %q", got, StatusChecking)
	}
}

func TestMonitorProbesImmediately(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{healthy: true}
	m := NewMonitor(checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	waitForStatus(t, m, StatusReady)
}

func TestMonitorReportsNotReady(t *testing.T) {
	t.Parallel()

	m := NewMonitor(&fakeChecker{healthy: false}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	waitForStatus(t, m, StatusNotReady)
}

func TestMonitorRetryBypassesInterval(t *testing.T) {
	t.Parallel()

	// The hour-long interval guarantees any recovery we observe came from
	// Retry, not from a scheduled tick.
	checker := &fakeChecker{healthy: false}
	m := NewMonitor(checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	waitForStatus(t, m, StatusNotReady)

	checker.setHealthy(true)
	m.Retry()
	waitForStatus(t, m, StatusReady)
}

func TestMonitorRetryCoalesces(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{healthy: true}
	m := NewMonitor(checker, time.Hour)

	// Queue retries before the loop even starts: the buffered signal must
	// collapse them into at most one extra probe.
	for i := 0; i < 5; i++ {
		m.Retry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	waitForStatus(t, m, StatusReady)

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if calls := checker.callCount(); calls > 2 {
		t.Fatalf("got %d probes, want at most 2 (initial plus one coalesced retry)", calls)
	}
}

func TestMonitorStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{healthy: true}
	m := NewMonitor(checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	waitForStatus(t, m, StatusReady)

	cancel()

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after context cancellation")
	}

	calls := checker.callCount()
	m.Retry()
	time.Sleep(50 * time.Millisecond)
	if got := checker.callCount(); got != calls {
		t.Fatalf("probes continued after stop: %d -> %d", calls, got)
	}
}

func TestNewMonitorDefaultInterval(t *testing.T) {
	t.Parallel()

	m := NewMonitor(&fakeChecker{}, 0)
	if m.interval != DefaultPollInterval {
		t.Fatalf("interval = %v, want %v", m.interval, DefaultPollInterval)
	}

	m = NewMonitor(&fakeChecker{}, -time.Second)
	if m.interval != DefaultPollInterval {
		t.Fatalf("interval = %v, want %v", m.interval, DefaultPollInterval)
	}
}
