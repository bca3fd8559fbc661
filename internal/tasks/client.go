package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
)

// Client wraps backlite to provide task queue functionality.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// NewClient creates a new task queue client with a dedicated SQLite database.
// The database is stored alongside the main database with a "-tasks" suffix.
// Conversions write into shared output directories, so the client always
// runs a single worker.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	if cfg.Workers != 1 {
		log.Warnf("Task queue supports exactly one worker, ignoring Workers=%d", cfg.Workers)
		cfg.Workers = 1
	}

	// Create tasks database path alongside main DB
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	tasksDBPath := filepath.Join(dir, name+"-tasks"+ext)

	// Open dedicated SQLite connection for tasks with WAL mode
	db, err := sql.Open("sqlite3", tasksDBPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	// Configure connection pool for concurrent workers
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	// Create backlite client
	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &logrusLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	// Install schema
	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
	}, nil
}

// Register registers task queues with the client.
// Must be called before Start().
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks. This is non-blocking and should be called
// in a goroutine. Use Stop() for graceful shutdown.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Infof("Task queue started with %d workers", c.config.Workers)
	c.client.Start(ctx)
}

// Stop gracefully shuts down the task queue, waiting for active tasks to complete.
// Returns true if all workers finished before the context deadline.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	if !c.started {
		c.mu.RUnlock()
		return true
	}
	c.mu.RUnlock()

	log.Info("Stopping task queue...")
	success := c.client.Stop(ctx)
	if success {
		log.Info("Task queue stopped gracefully")
	} else {
		log.Warn("Task queue stopped with timeout (some tasks may not have completed)")
	}
	return success
}

// Close releases all resources. Should be called after Stop().
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

// EnqueueConversion queues a batch conversion of one source and returns the task ID.
func (c *Client) EnqueueConversion(source entities.SourceKind) (string, error) {
	ids, err := c.client.Add(ConvertTask{Source: source}).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s conversion: %w", source, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("failed to enqueue %s conversion: no task id returned", source)
	}
	return ids[0], nil
}

// EnqueueRunCleanup queues removal of ledger rows older than retentionDays.
func (c *Client) EnqueueRunCleanup(retentionDays int) (string, error) {
	ids, err := c.client.Add(CleanupRunsTask{RetentionDays: retentionDays}).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue run cleanup: %w", err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("failed to enqueue run cleanup: no task id returned")
	}
	return ids[0], nil
}

// DB returns the underlying database connection for use with backlite UI.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Client returns the underlying backlite client for advanced operations.
func (c *Client) Client() *backlite.Client {
	return c.client
}

// logrusLogger implements backlite.Logger on top of logrus. backlite passes
// params as alternating key/value pairs.
type logrusLogger struct{}

func (l *logrusLogger) Info(message string, params ...any) {
	l.entry(params).Info(message)
}

func (l *logrusLogger) Error(message string, params ...any) {
	l.entry(params).Error(message)
}

func (l *logrusLogger) entry(params []any) *log.Entry {
	fields := log.Fields{"component": "tasks"}
	for i := 0; i+1 < len(params); i += 2 {
		fields[fmt.Sprint(params[i])] = params[i+1]
	}
	return log.WithFields(fields)
}
