package http

import (
	"context"
	"errors"
	"sync"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/transcripts/internal/entities"
)

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []entities.SourceKind
	statuses map[string]backlite.TaskStatus
	err      error
}

func (q *fakeQueue) EnqueueConversion(source entities.SourceKind) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, source)
	return "task-" + string(source), nil
}

func (q *fakeQueue) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	if q.err != nil {
		return backlite.TaskStatusNotFound, q.err
	}
	status, ok := q.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type fakeRunner struct {
	calls []entities.SourceKind
	files []entities.FileOutcome
	err   error
}

func (r *fakeRunner) Run(_ context.Context, kind entities.SourceKind) (*entities.RunReport, error) {
	r.calls = append(r.calls, kind)
	if r.err != nil {
		return nil, r.err
	}
	return &entities.RunReport{RunID: "run-1", Source: kind, Files: r.files}, nil
}

var errBoom = errors.New("boom")
