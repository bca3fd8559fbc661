package exporters

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/storage"
	"github.com/mrlokans/transcripts/internal/utils"
)

type TranscriptStyle int

const (
	// StylePlain renders "**sender**: text" lines (chat exports).
	StylePlain TranscriptStyle = iota
	// StyleDated renders "**sender** (readable date): text" lines (SMS/MMS).
	StyleDated
)

// StyleFor picks the transcript style used for a source.
func StyleFor(kind entities.SourceKind) TranscriptStyle {
	if kind == entities.SourceSMS {
		return StyleDated
	}
	return StylePlain
}

// TranscriptExporter writes one text transcript per conversation into a sink.
type TranscriptExporter struct {
	sink  storage.Client
	style TranscriptStyle
}

func NewTranscriptExporter(sink storage.Client, style TranscriptStyle) *TranscriptExporter {
	return &TranscriptExporter{sink: sink, style: style}
}

// TranscriptPath names the transcript file of a conversation. Transcripts
// always land directly in the output directory.
func TranscriptPath(displayName string) string {
	return utils.FlattenPathSegment(utils.SanitizeFilename(displayName)) + ".txt"
}

// GenerateTranscript renders a conversation. The heading keeps the display
// name exactly as it appeared in the source; message text is written verbatim.
func GenerateTranscript(conv entities.Conversation, style TranscriptStyle) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# %s\n\n", conv.DisplayName)
	for _, message := range conv.Messages {
		switch style {
		case StyleDated:
			fmt.Fprintf(&builder, "**%s** (%s): %s\n\n", message.Sender, message.ReadableDate, message.Text)
		default:
			fmt.Fprintf(&builder, "**%s**: %s\n\n", message.Sender, message.Text)
		}
	}

	return builder.String()
}

// Export renders every non-empty conversation. Conversations whose
// sanitized names coincide overwrite each other; the last one wins and a
// warning is recorded.
func (exporter *TranscriptExporter) Export(ctx context.Context, conversations []entities.Conversation) (ExportResult, error) {
	result := ExportResult{}
	written := make(map[string]string)

	for _, conv := range conversations {
		if conv.IsEmpty() {
			result.ConversationsSkipped++
			continue
		}

		outputPath := TranscriptPath(conv.DisplayName)
		if previous, ok := written[outputPath]; ok {
			warning := fmt.Sprintf("%q overwrites %q in %s", conv.DisplayName, previous, outputPath)
			log.Warnf("Transcript name collision: %s", warning)
			result.Warnings = append(result.Warnings, warning)
		}

		if err := storage.WriteString(ctx, exporter.sink, outputPath, GenerateTranscript(conv, exporter.style)); err != nil {
			result.ConversationsFailed++
			return result, fmt.Errorf("failed to write transcript %s: %w", outputPath, err)
		}

		written[outputPath] = conv.DisplayName
		result.ConversationsProcessed++
		result.MessagesProcessed += len(conv.Messages)
		result.Outputs = append(result.Outputs, outputPath)
		log.Debugf("Wrote transcript %s (%d messages)", outputPath, len(conv.Messages))
	}

	return result, nil
}

var _ ConversationExporter = (*TranscriptExporter)(nil)
