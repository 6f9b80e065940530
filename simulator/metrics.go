package simulator

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram tracks replay latency distribution with percentile support
type Histogram struct {
	samples []float64 // Latencies in microseconds
	mu sync.Mutex
	maxSize int // Maximum samples to retain
}

// NewHistogram creates a new histogram with a max sample size
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000 // Default: keep last 10k samples
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record adds a latency sample (in microseconds)
func (h *Histogram) Record(latencyUs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If at capacity, remove oldest sample (FIFO)
	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}

	h.samples = append(h.samples, latencyUs)
}

// Percentile calculates the given percentile (0-100)
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	sort.Float64s(sorted)

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation between lower and upper
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean calculates the average latency
func (h *Histogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Count returns the number of samples
func (h *Histogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Reset clears all samples
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}

// HistogramSnapshot holds current percentile statistics
type HistogramSnapshot struct {
	Count int
	Mean float64
	P50 float64 // Median
	P95 float64
	P99 float64
}

// Snapshot captures current histogram statistics
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{
		Count: h.Count(),
		Mean: h.Mean(),
		P50: h.Percentile(50),
		P95: h.Percentile(95),
		P99: h.Percentile(99),
	}
}

// policyCounters tracks per-policy replay statistics
type policyCounters struct {
	runs atomic.Uint64
	faults atomic.Uint64
	references atomic.Uint64
}

// Metrics tracks simulator performance metrics
type Metrics struct {
	// Per-policy counters
	counters map[PolicyKind]*policyCounters

	// Generator Metrics
	stringsGenerated atomic.Uint64
	stringsSanitized atomic.Uint64

	// Latency Histogram (microseconds)
	replayLatency *Histogram

	// Timing Metrics
	startTime time.Time
	mu sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	counters := make(map[PolicyKind]*policyCounters, len(Kinds()))
	for _, kind := range Kinds() {
		counters[kind] = &policyCounters{}
	}

	return &Metrics{
		counters: counters,
		startTime: time.Now(),
		replayLatency: NewHistogram(10000),
	}
}

// RecordReplay records one completed replay of a reference string
func (m *Metrics) RecordReplay(kind PolicyKind, refLength, faults int, duration time.Duration) {
	pc, ok := m.counters[kind]
	if !ok {
		return
	}

	pc.runs.Add(1)
	pc.faults.Add(uint64(faults))
	pc.references.Add(uint64(refLength))
	m.replayLatency.Record(float64(duration.Microseconds()))
}

// RecordGeneration records one generated reference string
func (m *Metrics) RecordGeneration() {
	m.stringsGenerated.Add(1)
}

// RecordSanitize records one sanitizer pass
func (m *Metrics) RecordSanitize() {
	m.stringsSanitized.Add(1)
}

// Getters

func (m *Metrics) GetRuns(kind PolicyKind) uint64 {
	if pc, ok := m.counters[kind]; ok {
		return pc.runs.Load()
	}
	return 0
}

func (m *Metrics) GetFaults(kind PolicyKind) uint64 {
	if pc, ok := m.counters[kind]; ok {
		return pc.faults.Load()
	}
	return 0
}

func (m *Metrics) GetReferences(kind PolicyKind) uint64 {
	if pc, ok := m.counters[kind]; ok {
		return pc.references.Load()
	}
	return 0
}

// GetFaultRate returns faults per reference for the given policy
func (m *Metrics) GetFaultRate(kind PolicyKind) float64 {
	pc, ok := m.counters[kind]
	if !ok {
		return 0.0
	}

	refs := pc.references.Load()
	if refs == 0 {
		return 0.0
	}
	return float64(pc.faults.Load()) / float64(refs)
}

func (m *Metrics) GetStringsGenerated() uint64 {
	return m.stringsGenerated.Load()
}

func (m *Metrics) GetStringsSanitized() uint64 {
	return m.stringsSanitized.Load()
}

func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// GetReplayLatency returns snapshot of replay latency distribution
func (m *Metrics) GetReplayLatency() HistogramSnapshot {
	return m.replayLatency.Snapshot()
}

// LogMetrics logs all metrics using structured logging
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	replay := m.GetReplayLatency()

	policyGroups := make([]any, 0, len(Kinds()))
	for _, kind := range Kinds() {
		policyGroups = append(policyGroups, slog.Group(string(kind),
			slog.Uint64("runs", m.GetRuns(kind)),
			slog.Uint64("faults", m.GetFaults(kind)),
			slog.Uint64("references", m.GetReferences(kind)),
			slog.Float64("fault_rate", m.GetFaultRate(kind)),
		))
	}

	logger.Info("Simulator Metrics",
		slog.Group("policies", policyGroups...),
		slog.Group("generator",
			slog.Uint64("strings_generated", m.GetStringsGenerated()),
			slog.Uint64("strings_sanitized", m.GetStringsSanitized()),
		),
		slog.Group("replay_latency_us",
			slog.Int("count", replay.Count),
			slog.Float64("mean", replay.Mean),
			slog.Float64("p50", replay.P50),
			slog.Float64("p95", replay.P95),
			slog.Float64("p99", replay.P99),
		),
		slog.Duration("uptime", m.GetUptime()),
	)
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	for _, pc := range m.counters {
		pc.runs.Store(0)
		pc.faults.Store(0)
		pc.references.Store(0)
	}

	m.stringsGenerated.Store(0)
	m.stringsSanitized.Store(0)
	m.replayLatency.Reset()

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
