package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the planner's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	storeWrites      *prometheus.CounterVec
	corruptReads     *prometheus.CounterVec
	phasesCompleted  *prometheus.CounterVec
	studyMinutes     prometheus.Counter
	changesPublished *prometheus.CounterVec
}

// Write results
const (
	ResultOK    = "ok"
	ResultQuota = "quota_exceeded"
	ResultError = "error"
)

// New creates and registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		storeWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_store_writes_total",
				Help: "Total number of document writes by key and result",
			},
			[]string{"key", "result"},
		),
		corruptReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_store_corrupt_reads_total",
				Help: "Total number of unparsable documents replaced by their fallback",
			},
			[]string{"key"},
		),
		phasesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_timer_phases_completed_total",
				Help: "Total number of completed focus timer phases",
			},
			[]string{"mode"},
		),
		studyMinutes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "planner_study_minutes_total",
				Help: "Study minutes credited by completed work phases",
			},
		),
		changesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_changes_total",
				Help: "Total number of collection mutations by collection and operation",
			},
			[]string{"collection", "op"},
		),
	}

	reg.MustRegister(m.storeWrites, m.corruptReads, m.phasesCompleted, m.studyMinutes, m.changesPublished)

	return m
}

func (m *Metrics) StoreWrite(key, result string) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(key, result).Inc()
}

func (m *Metrics) CorruptRead(key string) {
	if m == nil {
		return
	}
	m.corruptReads.WithLabelValues(key).Inc()
}

func (m *Metrics) PhaseCompleted(mode string) {
	if m == nil {
		return
	}
	m.phasesCompleted.WithLabelValues(mode).Inc()
}

func (m *Metrics) StudyMinutes(minutes int) {
	if m == nil {
		return
	}
	m.studyMinutes.Add(float64(minutes))
}

func (m *Metrics) Change(collection, op string) {
	if m == nil {
		return
	}
	m.changesPublished.WithLabelValues(collection, op).Inc()
}
