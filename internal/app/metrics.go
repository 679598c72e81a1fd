package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts dispatched actions and their latency.
type Metrics struct {
	dispatched atomic.Uint64
	rejected   atomic.Uint64
	totalNs    atomic.Int64
	minNs      atomic.Int64
	maxNs      atomic.Int64
	lastNs     atomic.Int64

	// Structure nodes created by split, insertStructure and breakParagraph.
	structureNodes atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.minNs.Store(1<<63 - 1)
	return m
}

// RecordDispatch records one action and how long it held the store.
func (m *Metrics) RecordDispatch(d time.Duration, err error) {
	ns := d.Nanoseconds()

	m.dispatched.Add(1)
	if err != nil {
		m.rejected.Add(1)
	}
	m.totalNs.Add(ns)
	m.lastNs.Store(ns)

	for {
		old := m.minNs.Load()
		if ns >= old || m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordStructureNode counts a structure node created by an edit.
func (m *Metrics) RecordStructureNode() {
	m.structureNodes.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	n := m.dispatched.Load()

	var avg int64
	if n > 0 {
		avg = m.totalNs.Load() / int64(n)
	}
	minNs := m.minNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		Dispatched:     n,
		Rejected:       m.rejected.Load(),
		AvgNs:          avg,
		MinNs:          minNs,
		MaxNs:          m.maxNs.Load(),
		LastNs:         m.lastNs.Load(),
		StructureNodes: m.structureNodes.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.dispatched.Store(0)
	m.rejected.Store(0)
	m.totalNs.Store(0)
	m.minNs.Store(1<<63 - 1)
	m.maxNs.Store(0)
	m.lastNs.Store(0)
	m.structureNodes.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration `json:"uptime"`
	Dispatched     uint64        `json:"dispatched"`
	Rejected       uint64        `json:"rejected"`
	AvgNs          int64         `json:"avgNs"`
	MinNs          int64         `json:"minNs"`
	MaxNs          int64         `json:"maxNs"`
	LastNs         int64         `json:"lastNs"`
	StructureNodes uint64        `json:"structureNodes"`
}

// Accepted returns the number of actions that were applied.
func (s MetricsSnapshot) Accepted() uint64 {
	return s.Dispatched - s.Rejected
}
