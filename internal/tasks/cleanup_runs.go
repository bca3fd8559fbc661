package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"
)

const defaultRunRetentionDays = 30

// RunCleaner provides the ability to delete old ledger rows.
type RunCleaner interface {
	DeleteOldRuns(retention time.Duration) (int64, error)
}

// CleanupRunsTask removes conversion runs older than the configured retention period.
type CleanupRunsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for run cleanup tasks.
func (t CleanupRunsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_conversion_runs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupRunsProcessor creates a processor function for CleanupRunsTask.
func CleanupRunsProcessor(cleaner RunCleaner) backlite.QueueProcessor[CleanupRunsTask] {
	return func(ctx context.Context, task CleanupRunsTask) error {
		if cleaner == nil {
			return fmt.Errorf("run cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = defaultRunRetentionDays
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldRuns(retention)
		if err != nil {
			return fmt.Errorf("cleanup conversion runs: %w", err)
		}

		log.Infof("[TASK] Cleaned up %d conversion runs older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupRunsQueue creates a backlite queue for run cleanup tasks.
func NewCleanupRunsQueue(cleaner RunCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupRunsProcessor(cleaner))
}
