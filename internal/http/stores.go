package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/transcripts/internal/entities"
)

// RunStore is the read side of the conversion run ledger.
type RunStore interface {
	List(limit, offset int) ([]entities.ConversionRun, int64, error)
	ListBySource(source entities.SourceKind, limit, offset int) ([]entities.ConversionRun, int64, error)
	GetByRunID(runID string) (*entities.ConversionRun, error)
}

// TaskQueue enqueues conversions and reports their progress.
type TaskQueue interface {
	EnqueueConversion(source entities.SourceKind) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
