package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/transcripts/internal/entities"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []entities.SourceKind
	err   error
}

func (f *fakeRunner) Run(_ context.Context, kind entities.SourceKind) (*entities.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.RunReport{RunID: "r", Source: kind}, nil
}

func (f *fakeRunner) sources() []entities.SourceKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.SourceKind(nil), f.calls...)
}

type fakeEnqueuer struct {
	mu     sync.Mutex
	queued []entities.SourceKind
}

func (f *fakeEnqueuer) EnqueueConversion(source entities.SourceKind) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, source)
	return "task-" + string(source), nil
}

func (f *fakeEnqueuer) sources() []entities.SourceKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.SourceKind(nil), f.queued...)
}

func TestWatchScheduler_StartStop(t *testing.T) {
	s := NewWatchScheduler(WatchConfig{
		Schedule: "*/15 * * * *",
		Sources:  []entities.SourceKind{entities.SourceChat},
	}, &fakeRunner{}, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestWatchScheduler_StopsWithContext(t *testing.T) {
	s := NewWatchScheduler(WatchConfig{
		Schedule: "0 0 * * *",
		Sources:  []entities.SourceKind{entities.SourceSMS},
	}, &fakeRunner{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchScheduler_StartErrors(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		s := NewWatchScheduler(WatchConfig{
			Schedule: "every now and then",
			Sources:  []entities.SourceKind{entities.SourceChat},
		}, &fakeRunner{}, nil)

		err := s.Start(context.Background())
		require.Error(t, err)
		assert.False(t, s.IsRunning())
	})

	t.Run("no sources", func(t *testing.T) {
		s := NewWatchScheduler(WatchConfig{Schedule: "* * * * *"}, &fakeRunner{}, nil)
		assert.Error(t, s.Start(context.Background()))
	})
}

func TestWatchScheduler_RunNowInline(t *testing.T) {
	runner := &fakeRunner{}
	s := NewWatchScheduler(WatchConfig{
		Schedule: "* * * * *",
		Sources:  []entities.SourceKind{entities.SourceChat, entities.SourceBundle},
	}, runner, nil)

	require.NoError(t, s.RunNow())

	assert.Eventually(t, func() bool { return len(runner.sources()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []entities.SourceKind{entities.SourceChat, entities.SourceBundle}, runner.sources())
}

func TestWatchScheduler_RunNowContinuesAfterFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("no input")}
	s := NewWatchScheduler(WatchConfig{
		Sources: []entities.SourceKind{entities.SourceChat, entities.SourceSMS},
	}, runner, nil)

	s.runSync()

	assert.Len(t, runner.sources(), 2)
	assert.False(t, s.IsSyncing())
}

func TestWatchScheduler_RunNowEnqueues(t *testing.T) {
	runner := &fakeRunner{}
	enqueuer := &fakeEnqueuer{}
	s := NewWatchScheduler(WatchConfig{
		Sources: []entities.SourceKind{entities.SourceSMS},
	}, runner, enqueuer)

	s.runSync()

	assert.Equal(t, []entities.SourceKind{entities.SourceSMS}, enqueuer.sources())
	assert.Empty(t, runner.sources())
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.NoError(t, ValidateCronSchedule("0 0 * * 0"))
	assert.Error(t, ValidateCronSchedule("* * * *"))
	assert.Error(t, ValidateCronSchedule("0 0 0 * * *"))
	assert.Error(t, ValidateCronSchedule(""))
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Every 15 minutes", GetCronDescription("*/15 * * * *"))
	assert.Equal(t, "Daily at midnight", GetCronDescription("0 0 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))
}

func TestGetNextRunTime(t *testing.T) {
	next, err := GetNextRunTime("* * * * *")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), *next, time.Minute+time.Second)

	_, err = GetNextRunTime("bogus")
	assert.Error(t, err)
}

func TestParseSources(t *testing.T) {
	sources, err := ParseSources(" SMS, chat,sms,,bundle ")
	require.NoError(t, err)
	assert.Equal(t, []entities.SourceKind{entities.SourceSMS, entities.SourceChat, entities.SourceBundle}, sources)
	assert.Equal(t, "sms,chat,bundle", FormatSources(sources))

	_, err = ParseSources("chat,fax")
	assert.Error(t, err)

	_, err = ParseSources(" , ")
	assert.Error(t, err)
}
