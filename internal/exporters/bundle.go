package exporters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/storage"
	"github.com/mrlokans/transcripts/internal/utils"
)

// BundleExporter writes per-user conversation bundles as JSON files laid
// out as <user_dir>/conversations_<timestamp>.json.
type BundleExporter struct {
	sink storage.Client
}

func NewBundleExporter(sink storage.Client) *BundleExporter {
	return &BundleExporter{sink: sink}
}

// BundlePath names the output file of a user bundle.
func BundlePath(userName, timestamp string) string {
	return fmt.Sprintf("%s/conversations_%s.json", utils.FlattenPathSegment(utils.UserDirName(userName)), timestamp)
}

// MarshalBundle serializes a bundle with two-space indentation. Non-ASCII
// and HTML characters are written as-is rather than escaped.
func MarshalBundle(bundle entities.UserBundle) ([]byte, error) {
	if bundle.Conversations == nil {
		bundle.Conversations = []json.RawMessage{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (exporter *BundleExporter) Export(ctx context.Context, bundles []entities.UserBundle) (ExportResult, error) {
	result := ExportResult{}

	for _, bundle := range bundles {
		if len(bundle.Conversations) == 0 {
			result.ConversationsSkipped++
			continue
		}

		outputPath := BundlePath(bundle.UserName, bundle.Timestamp)

		data, err := MarshalBundle(bundle)
		if err != nil {
			result.ConversationsFailed += len(bundle.Conversations)
			return result, fmt.Errorf("failed to encode bundle for %s: %w", bundle.UserName, err)
		}

		if err := exporter.sink.Upload(ctx, outputPath, bytes.NewReader(data)); err != nil {
			result.ConversationsFailed += len(bundle.Conversations)
			return result, fmt.Errorf("failed to write bundle %s: %w", outputPath, err)
		}

		result.ConversationsProcessed += len(bundle.Conversations)
		result.Outputs = append(result.Outputs, outputPath)
		log.Infof("Created file: %s", outputPath)
	}

	return result, nil
}
