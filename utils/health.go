package utils

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthCheck tests one external dependency.
type HealthCheck func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot of a fixed set of checks.
type HealthMonitor struct {
	checks  map[string]HealthCheck
	timeout time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

// NewHealthMonitor returns a monitor over checks, each bounded by timeout.
func NewHealthMonitor(checks map[string]HealthCheck, timeout time.Duration) *HealthMonitor {
	return &HealthMonitor{checks: checks, timeout: timeout}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check runs every check once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(names))}
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		ok := m.checks[name](cctx) == nil
		cancel()
		status.Services[name] = ok
		status.Healthy = status.Healthy && ok
	}
	status.CheckedAt = time.Now()

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start performs periodic health checks until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
