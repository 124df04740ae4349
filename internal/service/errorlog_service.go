package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/errorlog"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
	"github.com/krishnapranayangara/linksdisplay/internal/repository"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 100
	MaxExportLimit = 10000

	DefaultRetentionDays = 30
)

type ErrorLogService interface {
	// Log validates entry and submits it to the background writer.
	// A ValidationError means nothing was accepted; a nil return
	// means the entry was queued (persistence remains best-effort).
	Log(entry *errorlog.ErrorLog) error
	GetByID(id int64) (*errorlog.ErrorLog, error)
	List(filter *errorlog.Filter, page, perPage int) (*errorlog.Page, error)
	Export(filter *errorlog.Filter, limit int) ([]*errorlog.ErrorLog, error)
	Statistics(start, end *time.Time) (*errorlog.Statistics, error)
	CleanupOlderThan(days int) (int64, error)
	// Close stops intake, drains queued entries to storage and waits
	// for the writer to finish.
	Close()
}

type errorLogService struct {
	repo  repository.ErrorLogRepository
	queue chan *errorlog.ErrorLog
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewErrorLogService starts the background audit writer. queueSize
// bounds the number of records waiting for persistence; when the
// queue is full new records are dropped so backpressure never reaches
// the request path.
func NewErrorLogService(repo repository.ErrorLogRepository, queueSize int) ErrorLogService {
	if queueSize <= 0 {
		queueSize = 1024
	}

	s := &errorLogService{
		repo:  repo,
		queue: make(chan *errorlog.ErrorLog, queueSize),
		done:  make(chan struct{}),
	}

	go s.writeLoop()

	return s
}

func (s *errorLogService) Log(entry *errorlog.ErrorLog) error {
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		metrics.RecordAuditDrop("validation")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.RecordAuditDrop("closed")
		return errors.New("audit writer is closed")
	}

	select {
	case s.queue <- entry:
		metrics.AuditQueueDepth.Set(float64(len(s.queue)))
	default:
		// Dropping is preferable to blocking a client response on a
		// slow audit store.
		metrics.RecordAuditDrop("queue_full")
		logger.Warn("Audit queue full, dropping record",
			zap.String("method", entry.Method),
			zap.String("endpoint", entry.Endpoint),
		)
	}

	return nil
}

func (s *errorLogService) writeLoop() {
	defer close(s.done)

	for entry := range s.queue {
		metrics.AuditQueueDepth.Set(float64(len(s.queue)))
		if err := s.repo.Create(entry); err != nil {
			metrics.RecordAuditDrop("storage")
			logger.Error("Failed to persist audit record",
				zap.String("method", entry.Method),
				zap.String("endpoint", entry.Endpoint),
				zap.Error(err),
			)
			continue
		}
		metrics.AuditLogsWritten.Inc()
	}
}

func (s *errorLogService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
}

func (s *errorLogService) GetByID(id int64) (*errorlog.ErrorLog, error) {
	return s.repo.GetByID(id)
}

func (s *errorLogService) List(filter *errorlog.Filter, page, perPage int) (*errorlog.Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	// Clamp rather than reject oversized pages
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total, err := s.repo.Count(filter)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.List(filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))

	return &errorlog.Page{
		Errors:  entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

func (s *errorLogService) Export(filter *errorlog.Filter, limit int) ([]*errorlog.ErrorLog, error) {
	if limit < 1 {
		limit = 1000
	}
	if limit > MaxExportLimit {
		limit = MaxExportLimit
	}

	return s.repo.List(filter, limit, 0)
}

func (s *errorLogService) Statistics(start, end *time.Time) (*errorlog.Statistics, error) {
	return s.repo.Statistics(start, end)
}

func (s *errorLogService) CleanupOlderThan(days int) (int64, error) {
	if days < 1 {
		return 0, &ValidationError{Message: "days must be at least 1"}
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.DeleteBefore(cutoff)
}
