package entrypoint

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/audit"
	"github.com/mrlokans/transcripts/internal/database"
	"github.com/mrlokans/transcripts/internal/database/runs"
	"github.com/mrlokans/transcripts/internal/services"
	"github.com/mrlokans/transcripts/internal/storage"
)

// Options selects the directories and stores a conversion stack uses.
type Options struct {
	InputDir     string
	OutputDir    string
	DatabasePath string // run ledger; disabled when empty
	AuditDir     string // JSON run reports; disabled when empty
	DryRun       bool   // render into memory instead of OutputDir
}

// App holds the wired conversion stack shared by the server and the CLI.
type App struct {
	DB      *database.Database // nil without a ledger
	Runs    *runs.Repository   // nil without a ledger
	Audit   *audit.Service
	Service *services.ConversionService

	// Sink is a *storage.MemoryClient in dry-run mode.
	Sink storage.Client
}

// Build opens the ledger and wires the conversion service.
func Build(opts Options) (*App, error) {
	app := &App{}

	var store audit.RunStore
	if opts.DatabasePath != "" {
		db, err := database.NewDatabase(opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		app.DB = db
		app.Runs = runs.NewRepository(db.DB)
		store = app.Runs
	}

	var auditor *audit.Auditor
	if opts.AuditDir != "" {
		auditor = audit.NewAuditor(opts.AuditDir)
		log.Infof("Run reports will be saved to %s", opts.AuditDir)
	}
	app.Audit = audit.NewService(store, auditor)

	if opts.DryRun {
		app.Sink = storage.NewMemoryClient()
	} else {
		sink := storage.NewLocalClient(opts.OutputDir)
		if err := sink.EnsureRoot(); err != nil {
			app.Close()
			return nil, fmt.Errorf("output directory is not usable: %w", err)
		}
		app.Sink = sink
	}

	app.Service = services.NewConversionService(services.ConversionConfig{
		Source:    storage.NewLocalClient(opts.InputDir),
		Sink:      app.Sink,
		Recorder:  app.Audit,
		InputDir:  opts.InputDir,
		OutputDir: opts.OutputDir,
	})

	return app, nil
}

// Close releases the ledger database.
func (a *App) Close() {
	if a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		log.Errorf("Error closing database: %v", err)
	}
}
