package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/config"
	"github.com/mrlokans/transcripts/internal/entrypoint"
	"github.com/mrlokans/transcripts/internal/scheduler"
)

// WatchCommand converts new input on a cron schedule until interrupted.
type WatchCommand struct {
	Schedule     string
	Sources      string
	InputDir     string
	OutputDir    string
	DatabasePath string
	RunNow       bool

	Out io.Writer
}

func NewWatchCommand() *WatchCommand {
	return &WatchCommand{}
}

func (cmd *WatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)

	fs.StringVar(&cmd.Schedule, "schedule", config.DefaultWatchSchedule, "Cron schedule (minute hour dom month dow)")
	fs.StringVar(&cmd.Sources, "sources", config.DefaultWatchSources, "Comma-separated sources to convert: chat,sms,bundle")
	fs.StringVar(&cmd.InputDir, "input", config.DefaultDataDir, "Directory containing the input files")
	fs.StringVar(&cmd.OutputDir, "output", config.DefaultOutputDir, "Directory to write output files to")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the run ledger database (empty disables the ledger)")
	fs.BoolVar(&cmd.RunNow, "now", false, "Convert once immediately before waiting for the schedule")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s watch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Convert the input directory on a schedule until interrupted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s watch -schedule \"0 * * * *\" -sources chat,sms\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := scheduler.ValidateCronSchedule(cmd.Schedule); err != nil {
		return err
	}
	if _, err := scheduler.ParseSources(cmd.Sources); err != nil {
		return err
	}
	return nil
}

func (cmd *WatchCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return cmd.RunContext(ctx)
}

// RunContext watches until ctx is cancelled.
func (cmd *WatchCommand) RunContext(ctx context.Context) error {
	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}

	sources, err := scheduler.ParseSources(cmd.Sources)
	if err != nil {
		return err
	}

	app, err := entrypoint.Build(entrypoint.Options{
		InputDir:     cmd.InputDir,
		OutputDir:    cmd.OutputDir,
		DatabasePath: cmd.DatabasePath,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	watcher := scheduler.NewWatchScheduler(scheduler.WatchConfig{
		Schedule: cmd.Schedule,
		Sources:  sources,
	}, app.Service, nil)

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintln(out, "Watch")
	fmt.Fprintln(out, underline("Watch"))
	fmt.Fprintf(out, "Sources:  %s\n", scheduler.FormatSources(sources))
	fmt.Fprintf(out, "Schedule: %s\n", scheduler.GetCronDescription(cmd.Schedule))
	if next := watcher.GetNextRunTime(); next != nil {
		fmt.Fprintf(out, "Next run: %s\n", next.Format("2006-01-02 15:04:05"))
	}

	if cmd.RunNow {
		if err := watcher.RunNow(); err != nil {
			log.Warnf("Immediate run skipped: %v", err)
		}
	}

	<-ctx.Done()
	fmt.Fprintln(out, "\nWatch stopped.")
	return nil
}
