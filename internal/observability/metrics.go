package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides in-memory counters for the HTTP surface and the escalation
// path: requests, errors, escalations per band, and scoring passes that ran
// without AI signals.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	escalationCount map[string]int64
	signalFailures  int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		escalationCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordEscalation counts a ticket landing in an escalation-worthy band.
func (m *Metrics) RecordEscalation(band string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.escalationCount[band]++
}

// RecordSignalFailure counts a scoring pass that fell back to safe defaults.
func (m *Metrics) RecordSignalFailure() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signalFailures++
}

// EscalationCount reports escalations recorded for one band.
func (m *Metrics) EscalationCount(band string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.escalationCount[band]
}

// SignalFailureCount reports scoring passes that ran without AI signals.
func (m *Metrics) SignalFailureCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signalFailures
}
