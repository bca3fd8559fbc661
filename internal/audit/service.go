package audit

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
)

// RunStore persists conversion runs.
type RunStore interface {
	Save(run *entities.ConversionRun) error
	DeleteOlderThan(olderThan time.Time) (int64, error)
}

// Service records finished conversion runs in the ledger and, when an
// auditor is configured, as JSON report files. Either backend may be nil.
type Service struct {
	store   RunStore
	auditor *Auditor
}

// NewService creates a new audit service.
func NewService(store RunStore, auditor *Auditor) *Service {
	return &Service{store: store, auditor: auditor}
}

// RecordRun stores a run report. Failures are logged and never returned.
func (s *Service) RecordRun(_ context.Context, report *entities.RunReport) {
	if report == nil {
		return
	}
	logger := log.WithField("run_id", report.RunID)

	if s.store != nil {
		run, err := entities.NewConversionRun(report)
		if err == nil {
			err = s.store.Save(run)
		}
		if err != nil {
			logger.Errorf("Failed to record conversion run: %v", err)
		}
	}

	if s.auditor != nil {
		if _, err := s.auditor.SaveNamedJSON(report.RunID, report); err != nil {
			logger.Errorf("Failed to save run report: %v", err)
		}
	}
}

// DeleteOldRuns removes ledger rows older than the specified duration.
func (s *Service) DeleteOldRuns(retention time.Duration) (int64, error) {
	if s.store == nil {
		return 0, errors.New("run store not configured")
	}
	cutoff := time.Now().Add(-retention)
	return s.store.DeleteOlderThan(cutoff)
}
