package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/services"
)

// ConvertTask runs one batch conversion for a source.
type ConvertTask struct {
	Source entities.SourceKind `json:"source"`
}

// Config returns the queue configuration for conversion tasks.
func (t ConvertTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "convert_source",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ConvertProcessor creates a processor function for ConvertTask.
// A non-positive timeout leaves the queue timeout in charge.
func ConvertProcessor(runner services.Runner, timeout time.Duration) backlite.QueueProcessor[ConvertTask] {
	return func(ctx context.Context, task ConvertTask) error {
		if runner == nil {
			return fmt.Errorf("conversion runner not configured")
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		report, err := runner.Run(ctx, task.Source)
		if err != nil {
			return fmt.Errorf("convert %s: %w", task.Source, err)
		}

		log.WithFields(log.Fields{
			"run_id": report.RunID,
			"source": task.Source,
			"status": report.Status(),
		}).Infof("[TASK] Converted %d files", len(report.Files))
		return nil
	}
}

// NewConvertQueue creates a backlite queue for conversion tasks.
func NewConvertQueue(runner services.Runner, timeout time.Duration) backlite.Queue {
	return backlite.NewQueue(ConvertProcessor(runner, timeout))
}
