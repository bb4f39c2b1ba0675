package services

import (
	"github.com/taskmaster/planner/internal/application/events"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
)

// changeRecorder announces a committed mutation of one collection.
type changeRecorder struct {
	collection string
	notifier   *events.Notifier
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func newChangeRecorder(collection string, notifier *events.Notifier, log *logger.Logger, m *metrics.Metrics) changeRecorder {
	if log == nil {
		log = logger.NewNop()
	}
	return changeRecorder{
		collection: collection,
		notifier:   notifier,
		logger:     log.WithComponent(collection),
		metrics:    m,
	}
}

func (r changeRecorder) record(op events.Op, id string) {
	r.logger.LogChange(r.collection, string(op), id)
	r.metrics.Change(r.collection, string(op))
	r.notifier.Publish(events.Change{Collection: r.collection, Op: op, ID: id})
}
