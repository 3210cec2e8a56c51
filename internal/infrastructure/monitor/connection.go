package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source exposes the registry state the monitor samples.
type Source interface {
	Ping(ctx context.Context) bool
	Len() int
}

// Monitor samples store reachability and mirror size on a fixed
// interval so the status surface never blocks on the backend.
type Monitor struct {
	source Source

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(source Source, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh samples the source once and replaces the published status.
func (m *Monitor) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status := Status{
		Store:     m.source.Ping(ctx),
		TaskCount: m.source.Len(),
		LastCheck: time.Now(),
	}
	if !status.Store {
		m.logger.Debug("task store unreachable")
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
