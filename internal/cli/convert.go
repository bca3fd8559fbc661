package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/config"
	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/entrypoint"
	"github.com/mrlokans/transcripts/internal/storage"
)

// ConvertCommand runs one batch conversion over an input directory.
type ConvertCommand struct {
	InputDir     string
	OutputDir    string
	DatabasePath string
	DryRun       bool
	Verbose      bool

	// Out receives the human-readable summary (default os.Stdout).
	Out io.Writer

	name        string
	title       string
	description string
	done        string
	source      entities.SourceKind
}

// NewChatExportCommand converts chat-export JSON files into transcripts.
func NewChatExportCommand() *ConvertCommand {
	return &ConvertCommand{
		name:        "chat-export",
		title:       "Chat Export",
		description: "Render every *.json chat export in the input directory into\none <chat name>.txt transcript per chat. Newer exports overwrite older ones.",
		done:        "Text files have been generated in the output directory.",
		source:      entities.SourceChat,
	}
}

// NewSMSExportCommand converts SMS/MMS XML backups into transcripts.
func NewSMSExportCommand() *ConvertCommand {
	return &ConvertCommand{
		name:        "sms-export",
		title:       "SMS Export",
		description: "Render every *.xml SMS/MMS backup in the input directory into\none <contact>.txt transcript per phone number.",
		done:        "Text files have been generated in the output directory.",
		source:      entities.SourceSMS,
	}
}

// NewSplitUsersCommand splits zipped exports into per-user bundles.
func NewSplitUsersCommand() *ConvertCommand {
	return &ConvertCommand{
		name:        "split-users",
		title:       "Split Users",
		description: "Split every data-YYYY-MM-DD-HH-MM-SS.zip archive in the input directory\ninto <user>/conversations_<timestamp>.json bundles.",
		done:        "Processing completed!",
		source:      entities.SourceBundle,
	}
}

func (cmd *ConvertCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)

	fs.StringVar(&cmd.InputDir, "input", config.DefaultDataDir, "Directory containing the input files")
	fs.StringVar(&cmd.OutputDir, "output", config.DefaultOutputDir, "Directory to write output files to")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the run ledger database (empty disables the ledger)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show which files would be written without writing them")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], cmd.name)
		fmt.Fprintf(os.Stderr, "%s\n\n", cmd.description)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -input ./data -output ./output\n", os.Args[0], cmd.name)
		fmt.Fprintf(os.Stderr, "  %s %s -dry-run -verbose\n", os.Args[0], cmd.name)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.InputDir == "" {
		return fmt.Errorf("-input must not be empty")
	}
	if cmd.OutputDir == "" {
		return fmt.Errorf("-output must not be empty")
	}
	return nil
}

func (cmd *ConvertCommand) Run() error {
	return cmd.RunContext(context.Background())
}

// RunContext is Run with a caller-supplied context.
func (cmd *ConvertCommand) RunContext(ctx context.Context) error {
	out := cmd.out()
	if cmd.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	fmt.Fprintln(out, cmd.title)
	fmt.Fprintln(out, underline(cmd.title))

	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No files will be written")
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Input:  %s\n", cmd.InputDir)
	fmt.Fprintf(out, "Output: %s\n", cmd.OutputDir)

	opts := entrypoint.Options{
		InputDir:  cmd.InputDir,
		OutputDir: cmd.OutputDir,
		DryRun:    cmd.DryRun,
	}
	if !cmd.DryRun {
		opts.DatabasePath = cmd.DatabasePath
	}

	app, err := entrypoint.Build(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Service.Run(ctx, cmd.source)
	if report != nil {
		printReport(out, report, cmd.Verbose)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.name, err)
	}

	if mem, ok := app.Sink.(*storage.MemoryClient); ok {
		printDryRun(out, mem)
		fmt.Fprintln(out, "\nDry run complete. Use without -dry-run to write files.")
		return nil
	}

	if len(report.Files) == 0 {
		fmt.Fprintln(out, "\nNo input files found in input directory")
		return nil
	}

	fmt.Fprintf(out, "\n%s\n", cmd.done)
	if report.Status() == entities.RunStatusFailed {
		return fmt.Errorf("all %d input files failed", len(report.Files))
	}
	return nil
}

func (cmd *ConvertCommand) out() io.Writer {
	if cmd.Out == nil {
		return os.Stdout
	}
	return cmd.Out
}
