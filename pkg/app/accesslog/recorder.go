package accesslog

import (
	"context"
	"time"

	domain "github.com/edgecloak/edgecloak/pkg/domain/accesslog"
	"github.com/edgecloak/edgecloak/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	queueSize    = 1000
	workerCount  = 4
	writeTimeout = 2 * time.Second
)

// Exporter mirrors an access-log entry to an external stream.
type Exporter interface {
	Name() string
	Handle(ctx context.Context, entry *domain.AccessLog) error
	Close()
}

// recorder persists entries asynchronously. Record never blocks: when the
// queue is full the entry is dropped, because logging must not affect the
// response already computed.
type recorder struct {
	logger   *logrus.Logger
	repo     domain.Repository
	exporter Exporter
	queue    chan *domain.AccessLog
}

func NewRecorder(logger *logrus.Logger, repo domain.Repository, exporter Exporter) domain.Recorder {
	r := &recorder{
		logger:   logger,
		repo:     repo,
		exporter: exporter,
		queue:    make(chan *domain.AccessLog, queueSize),
	}
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

func (r *recorder) Record(entry *domain.AccessLog) {
	select {
	case r.queue <- entry:
	default:
		prometheus.AccessLogDropped.Inc()
		r.logger.WithField("policy_id", entry.PolicyID).
			Warn("access log queue full, dropping entry")
	}
}

func (r *recorder) worker() {
	for entry := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.repo.Save(ctx, entry); err != nil {
			r.logger.WithError(err).WithField("policy_id", entry.PolicyID).
				Error("failed to persist access log entry")
		}
		cancel()

		if r.exporter != nil {
			if err := r.exporter.Handle(context.Background(), entry); err != nil {
				r.logger.WithError(err).
					WithField("exporter", r.exporter.Name()).
					Error("failed to export access log entry")
			}
		}
	}
}
