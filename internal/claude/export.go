package claude

import (
	"encoding/json"
	"fmt"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/utils"
)

// Chat is one conversation of a chat export. Pointer fields distinguish a
// missing or null value from an empty string.
type Chat struct {
	UUID         string        `json:"uuid,omitempty"`
	Name         *string       `json:"name"`
	ChatMessages []ChatMessage `json:"chat_messages"`
}

type ChatMessage struct {
	Sender    *string `json:"sender"`
	Text      *string `json:"text"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// ParseExport decodes a chat-export file: a JSON array of chat objects.
func ParseExport(data []byte) ([]Chat, error) {
	var chats []Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, fmt.Errorf("failed to parse chat export: %w", err)
	}
	return chats, nil
}

// DisplayName returns the chat name, or DefaultChatName when absent.
func (c Chat) DisplayName() string {
	if c.Name == nil {
		return entities.DefaultChatName
	}
	return *c.Name
}

// SortKey is created_at when present, else updated_at, else "".
func (m ChatMessage) SortKey() string {
	if m.CreatedAt != nil {
		return *m.CreatedAt
	}
	if m.UpdatedAt != nil {
		return *m.UpdatedAt
	}
	return ""
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ConvertChats maps every chat onto a Conversation. Chats are never merged,
// even when their names coincide.
func ConvertChats(chats []Chat) []entities.Conversation {
	conversations := make([]entities.Conversation, 0, len(chats))

	for _, chat := range chats {
		name := chat.DisplayName()
		conv := entities.Conversation{
			DisplayName: name,
			GroupKey:    utils.SanitizeFilename(name),
			Source:      entities.SourceChat,
			Messages:    make([]entities.Message, 0, len(chat.ChatMessages)),
		}

		for _, m := range chat.ChatMessages {
			conv.Messages = append(conv.Messages, entities.Message{
				Sender:      valueOrEmpty(m.Sender),
				Text:        valueOrEmpty(m.Text),
				Timestamp:   entities.TextTimestamp(m.SortKey()),
				Attachments: []string{},
				Files:       []string{},
			})
		}

		conversations = append(conversations, conv)
	}

	return conversations
}
