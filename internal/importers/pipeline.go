package importers

import (
	"context"
	"slices"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/exporters"
)

// RawMessage is a canonical message still waiting to be grouped.
// Each message-level source implements a converter that emits these.
type RawMessage struct {
	GroupKey         string
	ConversationName string
	Message          entities.Message
}

// Source provides metadata about the import source for each conversation.
type Source struct {
	Kind     entities.SourceKind
	FilePath string
}

// Converter transforms one decoded input file into RawMessages.
//
// Implementations:
//   - smsbackup.Converter - SMS/MMS XML backups, grouped by address
//
// Sources that already arrive grouped per conversation (chat exports)
// use Pipeline.ImportConversations instead.
type Converter interface {
	Convert() ([]RawMessage, Source)
}

// Exporter renders conversations to their output artifacts.
type Exporter interface {
	Export(ctx context.Context, conversations []entities.Conversation) (exporters.ExportResult, error)
}

// Pipeline handles the common conversion workflow:
// group → order → drop empty → export.
type Pipeline struct {
	exporter Exporter
}

// NewPipeline creates a new conversion pipeline with the given exporter.
func NewPipeline(exporter Exporter) *Pipeline {
	return &Pipeline{exporter: exporter}
}

// Import groups messages from a converter into conversations and exports them.
func (p *Pipeline) Import(ctx context.Context, converter Converter) (exporters.ExportResult, error) {
	messages, source := converter.Convert()

	if len(messages) == 0 {
		return exporters.ExportResult{}, nil
	}

	return p.ImportConversations(ctx, groupMessages(messages, source))
}

// ImportConversations orders and exports pre-grouped conversations.
// Conversations without messages are skipped and never rendered.
func (p *Pipeline) ImportConversations(ctx context.Context, conversations []entities.Conversation) (exporters.ExportResult, error) {
	ready := make([]entities.Conversation, 0, len(conversations))
	skipped := 0
	for _, conv := range conversations {
		if conv.IsEmpty() {
			skipped++
			continue
		}
		OrderMessages(conv.Messages)
		ready = append(ready, conv)
	}

	if len(ready) == 0 {
		return exporters.ExportResult{ConversationsSkipped: skipped}, nil
	}

	result, err := p.exporter.Export(ctx, ready)
	result.ConversationsSkipped += skipped
	return result, err
}

// groupMessages buckets messages by GroupKey, keeping conversations in the
// order their first message appeared. A conversation takes the first
// non-empty name seen for its key.
func groupMessages(messages []RawMessage, source Source) []entities.Conversation {
	index := make(map[string]int)
	var conversations []entities.Conversation

	for _, m := range messages {
		i, exists := index[m.GroupKey]
		if !exists {
			i = len(conversations)
			index[m.GroupKey] = i
			conversations = append(conversations, entities.Conversation{
				GroupKey: m.GroupKey,
				Source:   source.Kind,
			})
		}

		conv := &conversations[i]
		if conv.DisplayName == "" && m.ConversationName != "" {
			conv.DisplayName = m.ConversationName
		}
		conv.Messages = append(conv.Messages, m.Message)
	}

	return conversations
}

// OrderMessages sorts messages ascending by timestamp. The sort is stable:
// messages sharing a timestamp keep their input order.
func OrderMessages(messages []entities.Message) {
	slices.SortStableFunc(messages, func(a, b entities.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}
