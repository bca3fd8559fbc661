package services

import (
	"context"

	"github.com/mrlokans/transcripts/internal/entities"
)

// RunRecorder persists the outcome of a conversion run (ledger, audit files).
// Implementations log their own failures; recording never fails a run.
type RunRecorder interface {
	RecordRun(ctx context.Context, report *entities.RunReport)
}

// Runner executes one batch conversion for a source.
// Use this interface when you only need to trigger conversions (queue, scheduler, HTTP).
type Runner interface {
	Run(ctx context.Context, kind entities.SourceKind) (*entities.RunReport, error)
}
