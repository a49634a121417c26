package monitoring

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// MemoryMonitor watches for heap and goroutine growth against a baseline
// captured after warmup. Growth past the configured multiplier triggers the
// warning callback with a one-line report.
type MemoryMonitor struct {
	mu        sync.RWMutex
	baseline  baseline
	onWarning func(report string)

	threshold float64
	interval  time.Duration
	done      chan struct{}
}

type baseline struct {
	heap       uint64
	goroutines int
}

// MemorySnapshot is a point-in-time view of the runtime's memory state.
type MemorySnapshot struct {
	Timestamp    time.Time
	HeapAlloc    uint64
	HeapIdle     uint64
	HeapInuse    uint64
	StackInuse   uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// NewMemoryMonitor builds a monitor that checks every interval and warns
// when heap or goroutine count exceeds threshold times the baseline
// (2.0 means warn at double the baseline).
func NewMemoryMonitor(threshold float64, interval time.Duration) *MemoryMonitor {
	return &MemoryMonitor{
		threshold: threshold,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// EstablishBaseline records the reference heap size and goroutine count.
// Call it after the service has warmed up so steady-state allocations are
// inside the baseline, not counted as growth.
func (m *MemoryMonitor) EstablishBaseline() {
	// GC first so the baseline measures live data, not garbage.
	runtime.GC()

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.mu.Lock()
	m.baseline = baseline{heap: stats.Alloc, goroutines: runtime.NumGoroutine()}
	m.mu.Unlock()
}

// TakeSnapshot captures the current memory state.
func (m *MemoryMonitor) TakeSnapshot() MemorySnapshot {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return MemorySnapshot{
		Timestamp:    time.Now(),
		HeapAlloc:    stats.Alloc,
		HeapIdle:     stats.HeapIdle,
		HeapInuse:    stats.HeapInuse,
		StackInuse:   stats.StackInuse,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// CheckForLeaks compares the current state to the baseline. Without a
// baseline it reports nothing.
func (m *MemoryMonitor) CheckForLeaks() (leaked bool, report string) {
	m.mu.RLock()
	base := m.baseline
	limit := m.threshold
	m.mu.RUnlock()

	if base.heap == 0 {
		return false, ""
	}

	snap := m.TakeSnapshot()

	if ratio := float64(snap.HeapAlloc) / float64(base.heap); ratio > limit {
		return true, fmt.Sprintf(
			"Memory leak detected: heap grew %.2fx (%.2f MB to %.2f MB)",
			ratio,
			float64(base.heap)/bytesPerMB,
			float64(snap.HeapAlloc)/bytesPerMB,
		)
	}

	if ratio := float64(snap.NumGoroutine) / float64(base.goroutines); ratio > limit {
		return true, fmt.Sprintf(
			"Goroutine leak detected: count grew %.2fx (%d to %d)",
			ratio,
			base.goroutines,
			snap.NumGoroutine,
		)
	}

	return false, ""
}

// StartMonitoring launches the periodic check loop.
func (m *MemoryMonitor) StartMonitoring() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				leaked, report := m.CheckForLeaks()
				if !leaked {
					continue
				}
				m.mu.RLock()
				warn := m.onWarning
				m.mu.RUnlock()
				if warn != nil {
					warn(report)
				}
			case <-m.done:
				return
			}
		}
	}()
}

// StopMonitoring ends the check loop. Call at most once.
func (m *MemoryMonitor) StopMonitoring() {
	close(m.done)
}

// SetWarningCallback installs the function invoked with each leak report.
func (m *MemoryMonitor) SetWarningCallback(callback func(string)) {
	m.mu.Lock()
	m.onWarning = callback
	m.mu.Unlock()
}
