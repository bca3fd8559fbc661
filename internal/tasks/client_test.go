package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/transcripts/internal/entities"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	// Start client in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	// Stop should complete successfully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

// TestTask is a simple task for testing
type TestTask struct {
	Value string `json:"value"`
}

func (t TestTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "test_task",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	// Create and register a test queue
	executed := make(chan string, 1)
	queue := backlite.NewQueue(func(ctx context.Context, task TestTask) error {
		executed <- task.Value
		return nil
	})
	client.Register(queue)

	// Start client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// Enqueue a task
	ids, err := client.Add(TestTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	// Wait for task to be executed
	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestNewClient_ForcesSingleWorker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 1, client.config.Workers)
}

type fakeRunner struct {
	mu      sync.Mutex
	sources []entities.SourceKind
	err     error
}

func (f *fakeRunner) Run(_ context.Context, kind entities.SourceKind) (*entities.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.RunReport{RunID: "run", Source: kind}, nil
}

func (f *fakeRunner) calls() []entities.SourceKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.SourceKind(nil), f.sources...)
}

func TestConvertProcessor(t *testing.T) {
	t.Run("runs the requested source", func(t *testing.T) {
		runner := &fakeRunner{}
		process := ConvertProcessor(runner, time.Minute)

		err := process(context.Background(), ConvertTask{Source: entities.SourceSMS})
		require.NoError(t, err)
		assert.Equal(t, []entities.SourceKind{entities.SourceSMS}, runner.calls())
	})

	t.Run("propagates run errors", func(t *testing.T) {
		process := ConvertProcessor(&fakeRunner{err: errors.New("listing failed")}, 0)

		err := process(context.Background(), ConvertTask{Source: entities.SourceChat})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing failed")
	})

	t.Run("nil runner", func(t *testing.T) {
		err := ConvertProcessor(nil, 0)(context.Background(), ConvertTask{Source: entities.SourceChat})
		assert.Error(t, err)
	})
}

func TestEnqueueConversion(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	runner := &fakeRunner{}
	client.Register(NewConvertQueue(runner, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueConversion(entities.SourceBundle)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), id)
		return err == nil && status == backlite.TaskStatusSuccess
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, []entities.SourceKind{entities.SourceBundle}, runner.calls())
}

type fakeCleaner struct {
	retention time.Duration
}

func (f *fakeCleaner) DeleteOldRuns(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

func TestCleanupRunsProcessor(t *testing.T) {
	t.Run("defaults to 30 days", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		err := CleanupRunsProcessor(cleaner)(context.Background(), CleanupRunsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})

	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		err := CleanupRunsProcessor(cleaner)(context.Background(), CleanupRunsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("nil cleaner", func(t *testing.T) {
		assert.Error(t, CleanupRunsProcessor(nil)(context.Background(), CleanupRunsTask{}))
	})
}

func TestTaskConfigs(t *testing.T) {
	convert := ConvertTask{}.Config()
	assert.Equal(t, "convert_source", convert.Name)
	assert.Equal(t, 1, convert.MaxAttempts)
	assert.NotNil(t, convert.Retention)

	cleanup := CleanupRunsTask{}.Config()
	assert.Equal(t, "cleanup_conversion_runs", cleanup.Name)
	assert.Equal(t, 3, cleanup.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cleanup.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
