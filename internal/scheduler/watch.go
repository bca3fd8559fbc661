package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/services"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer hands conversions to the background task queue.
type Enqueuer interface {
	EnqueueConversion(source entities.SourceKind) (string, error)
}

// WatchConfig configures the periodic conversion of input directories.
type WatchConfig struct {
	Schedule string
	Sources  []entities.SourceKind
}

// WatchScheduler periodically converts the configured sources. When an
// Enqueuer is set, conversions go through the task queue; otherwise they run
// inline on the cron goroutine.
type WatchScheduler struct {
	config   WatchConfig
	runner   services.Runner
	enqueuer Enqueuer

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	syncMu    sync.Mutex
	isSyncing bool
	runCtx    context.Context
}

// NewWatchScheduler creates a new scheduler instance. enqueuer may be nil.
func NewWatchScheduler(cfg WatchConfig, runner services.Runner, enqueuer Enqueuer) *WatchScheduler {
	return &WatchScheduler{
		config:   cfg,
		runner:   runner,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(cronParser)),
		runCtx:   context.Background(),
	}
}

// Start schedules the conversion job. It stops when ctx is cancelled.
func (s *WatchScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if len(s.config.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule watch job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.syncMu.Lock()
	s.runCtx = cancelCtx
	s.syncMu.Unlock()

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.config.Schedule)
	log.Infof("Watch scheduler: started with schedule '%s' (%s) for %s. Next run: %v",
		s.config.Schedule,
		GetCronDescription(s.config.Schedule),
		FormatSources(s.config.Sources),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *WatchScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Cancelling first lets an inline conversion stop between files.
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.cancelFunc = nil

	log.Info("Watch scheduler: stopped")
}

// RunNow triggers an immediate conversion of every configured source.
func (s *WatchScheduler) RunNow() error {
	go s.runSync()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *WatchScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a conversion pass is in progress
func (s *WatchScheduler) IsSyncing() bool {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next conversion will occur
func (s *WatchScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync converts every configured source once. Overlapping passes are skipped.
func (s *WatchScheduler) runSync() {
	s.syncMu.Lock()
	if s.isSyncing {
		s.syncMu.Unlock()
		log.Info("Watch: skipped (already converting)")
		return
	}
	s.isSyncing = true
	ctx := s.runCtx
	s.syncMu.Unlock()

	defer func() {
		s.syncMu.Lock()
		s.isSyncing = false
		s.syncMu.Unlock()
	}()

	for _, source := range s.config.Sources {
		if ctx.Err() != nil {
			return
		}

		if s.enqueuer != nil {
			taskID, err := s.enqueuer.EnqueueConversion(source)
			if err != nil {
				log.WithField("source", source).Errorf("Watch: failed to enqueue conversion: %v", err)
				continue
			}
			log.WithFields(log.Fields{"source": source, "task_id": taskID}).Info("Watch: conversion queued")
			continue
		}

		if s.runner == nil {
			log.Error("Watch: no conversion runner configured")
			return
		}

		report, err := s.runner.Run(ctx, source)
		if err != nil {
			log.WithField("source", source).Errorf("Watch: conversion failed: %v", err)
			continue
		}
		log.WithFields(log.Fields{
			"source":        source,
			"run_id":        report.RunID,
			"files":         len(report.Files),
			"conversations": report.TotalConversations(),
		}).Info("Watch: conversion finished")
	}
}

// ValidateCronSchedule validates a 5-field cron expression
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "* * * * *":
		return "Every minute"
	case "*/5 * * * *":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the next run happens based on the schedule
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// ParseSources parses a comma-separated source list such as "chat,sms".
// Duplicates are dropped; order is kept.
func ParseSources(list string) ([]entities.SourceKind, error) {
	var sources []entities.SourceKind
	seen := make(map[entities.SourceKind]bool)

	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		kind, ok := entities.ParseSourceKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (expected chat, sms or bundle)", strings.TrimSpace(name))
		}
		if !seen[kind] {
			seen[kind] = true
			sources = append(sources, kind)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources given")
	}
	return sources, nil
}

// FormatSources joins sources into a comma-separated list.
func FormatSources(sources []entities.SourceKind) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return strings.Join(names, ",")
}
