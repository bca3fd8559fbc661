package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/claude"
	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/exporters"
	"github.com/mrlokans/transcripts/internal/importers"
	"github.com/mrlokans/transcripts/internal/smsbackup"
	"github.com/mrlokans/transcripts/internal/storage"
)

var ErrUnknownSource = errors.New("unknown source")

// ConversionConfig wires a ConversionService to its input and output.
// InputDir and OutputDir only label run reports.
type ConversionConfig struct {
	Source    storage.Client
	Sink      storage.Client
	Recorder  RunRecorder
	InputDir  string
	OutputDir string
}

// ConversionService runs batch conversions over every input file of a source.
// Runs are serialized: a second Run waits for the first to finish.
type ConversionService struct {
	source    storage.Client
	sink      storage.Client
	recorder  RunRecorder
	inputDir  string
	outputDir string

	mu sync.Mutex
}

func NewConversionService(cfg ConversionConfig) *ConversionService {
	return &ConversionService{
		source:    cfg.Source,
		sink:      cfg.Sink,
		recorder:  cfg.Recorder,
		inputDir:  cfg.InputDir,
		outputDir: cfg.OutputDir,
	}
}

// fileResult is what a per-file converter reports back.
type fileResult struct {
	export   exporters.ExportResult
	warnings []string
	skipped  bool
}

type fileConverter func(ctx context.Context, file storage.FileInfo, data []byte) (fileResult, error)

// Run converts every input file of the given source.
func (s *ConversionService) Run(ctx context.Context, kind entities.SourceKind) (*entities.RunReport, error) {
	switch kind {
	case entities.SourceChat:
		return s.ConvertChatExports(ctx)
	case entities.SourceSMS:
		return s.ConvertSMSBackups(ctx)
	case entities.SourceBundle:
		return s.SplitUserBundles(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// ConvertChatExports renders every *.json chat export into transcripts,
// oldest export first so later exports overwrite earlier ones.
func (s *ConversionService) ConvertChatExports(ctx context.Context) (*entities.RunReport, error) {
	pipeline := importers.NewPipeline(exporters.NewTranscriptExporter(s.sink, exporters.StylePlain))

	return s.run(ctx, entities.SourceChat,
		func(files []storage.FileInfo) []storage.FileInfo {
			files = storage.FilterFiles(files, storage.WithExtension(".json"))
			claude.SortExportFiles(files)
			return files
		},
		func(ctx context.Context, _ storage.FileInfo, data []byte) (fileResult, error) {
			chats, err := claude.ParseExport(data)
			if err != nil {
				return fileResult{}, err
			}
			result, err := pipeline.ImportConversations(ctx, claude.ConvertChats(chats))
			return fileResult{export: result, warnings: result.Warnings}, err
		},
	)
}

// ConvertSMSBackups renders every *.xml SMS/MMS backup into dated transcripts.
func (s *ConversionService) ConvertSMSBackups(ctx context.Context) (*entities.RunReport, error) {
	pipeline := importers.NewPipeline(exporters.NewTranscriptExporter(s.sink, exporters.StyleDated))

	return s.run(ctx, entities.SourceSMS,
		func(files []storage.FileInfo) []storage.FileInfo {
			files = storage.FilterFiles(files, storage.WithExtension(".xml"))
			storage.SortByName(files)
			return files
		},
		func(ctx context.Context, file storage.FileInfo, data []byte) (fileResult, error) {
			backup, err := smsbackup.Parse(data)
			if err != nil {
				return fileResult{}, err
			}
			result, err := pipeline.Import(ctx, smsbackup.NewConverter(backup, file.Path))
			return fileResult{export: result, warnings: result.Warnings}, err
		},
	)
}

// SplitUserBundles re-packages every data-*.zip archive into per-user bundles.
func (s *ConversionService) SplitUserBundles(ctx context.Context) (*entities.RunReport, error) {
	exporter := exporters.NewBundleExporter(s.sink)

	return s.run(ctx, entities.SourceBundle,
		func(files []storage.FileInfo) []storage.FileInfo {
			files = storage.FilterFiles(files, storage.MatchingGlob(claude.BundleGlob))
			storage.SortByName(files)
			return files
		},
		func(ctx context.Context, file storage.FileInfo, data []byte) (fileResult, error) {
			timestamp, err := claude.BundleTimestamp(file.Name)
			if err != nil {
				return fileResult{skipped: true, warnings: []string{fmt.Sprintf("Invalid filename format: %s", file.Name)}}, nil
			}

			bundle, err := claude.ReadBundle(data)
			if err != nil {
				return fileResult{}, err
			}
			bundle.Timestamp = timestamp

			bundles, warnings := claude.SplitByUser(bundle)
			for _, warning := range warnings {
				log.WithField("file", file.Name).Warn(warning)
			}

			result, err := exporter.Export(ctx, bundles)
			return fileResult{export: result, warnings: append(warnings, result.Warnings...)}, err
		},
	)
}

func (s *ConversionService) run(
	ctx context.Context,
	kind entities.SourceKind,
	selectFiles func([]storage.FileInfo) []storage.FileInfo,
	convert fileConverter,
) (*entities.RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &entities.RunReport{
		RunID:     uuid.New().String(),
		Source:    kind,
		InputDir:  s.inputDir,
		OutputDir: s.outputDir,
		StartedAt: time.Now().UTC(),
		Files:     []entities.FileOutcome{},
	}
	logger := log.WithFields(log.Fields{"run_id": report.RunID, "source": kind})

	listing, err := s.source.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	files := selectFiles(listing)
	if len(files) == 0 {
		logger.Info("No input files found")
	}

	var runErr error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run interrupted: %w", err)
			break
		}

		logger.WithField("file", file.Name).Info("Processing")
		outcome := s.convertFile(ctx, file, convert)
		switch outcome.Status {
		case entities.FileStatusFailed:
			logger.WithField("file", file.Name).Errorf("Error processing file: %s", outcome.Error)
		case entities.FileStatusSkipped:
			logger.WithField("file", file.Name).Warn("Skipped file")
		}
		report.Files = append(report.Files, outcome)
	}

	report.FinishedAt = time.Now().UTC()
	logger.WithFields(log.Fields{
		"files":         len(report.Files),
		"failed":        report.FilesFailed(),
		"conversations": report.TotalConversations(),
	}).Info("Run finished")

	if s.recorder != nil {
		s.recorder.RecordRun(ctx, report)
	}

	return report, runErr
}

// convertFile isolates one input file: any failure is captured in the outcome.
func (s *ConversionService) convertFile(ctx context.Context, file storage.FileInfo, convert fileConverter) entities.FileOutcome {
	outcome := entities.FileOutcome{Name: file.Name}

	data, err := storage.ReadAll(ctx, s.source, file.Path)
	if err != nil {
		outcome.Status = entities.FileStatusFailed
		outcome.Error = fmt.Sprintf("failed to read file: %v", err)
		return outcome
	}

	result, err := convert(ctx, file, data)
	outcome.Warnings = result.warnings
	outcome.Conversations = result.export.ConversationsProcessed
	outcome.ConversationsSkipped = result.export.ConversationsSkipped
	outcome.Messages = result.export.MessagesProcessed
	outcome.Outputs = result.export.Outputs

	switch {
	case err != nil:
		outcome.Status = entities.FileStatusFailed
		outcome.Error = err.Error()
	case result.skipped:
		outcome.Status = entities.FileStatusSkipped
	default:
		outcome.Status = entities.FileStatusConverted
	}
	return outcome
}

var _ Runner = (*ConversionService)(nil)
