package exporters

import (
	"context"

	"github.com/mrlokans/transcripts/internal/entities"
)

type ConversationExporter interface {
	Export(ctx context.Context, conversations []entities.Conversation) (ExportResult, error)
}

type ExportResult struct {
	ConversationsProcessed int      `json:"conversations_processed"`
	MessagesProcessed      int      `json:"messages_processed"`
	ConversationsSkipped   int      `json:"conversations_skipped"`
	ConversationsFailed    int      `json:"conversations_failed"`
	Outputs                []string `json:"outputs,omitempty"`
	Warnings               []string `json:"warnings,omitempty"`
}
