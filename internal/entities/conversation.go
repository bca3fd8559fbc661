package entities

import (
	"cmp"
	"encoding/json"
	"strings"
)

type SourceKind string

const (
	SourceChat   SourceKind = "chat"   // chat-export JSON arrays
	SourceSMS    SourceKind = "sms"    // SMS/MMS XML backups
	SourceBundle SourceKind = "bundle" // zipped users.json + conversations.json
)

// AllSources lists every supported source in processing order.
var AllSources = []SourceKind{SourceChat, SourceSMS, SourceBundle}

// ParseSourceKind maps a user-supplied name onto a SourceKind.
func ParseSourceKind(name string) (SourceKind, bool) {
	switch SourceKind(strings.ToLower(strings.TrimSpace(name))) {
	case SourceChat:
		return SourceChat, true
	case SourceSMS:
		return SourceSMS, true
	case SourceBundle:
		return SourceBundle, true
	default:
		return "", false
	}
}

// DefaultChatName is used when a chat export record carries no name.
const DefaultChatName = "Unnamed Chat"

// Timestamp is the ordering key of a message. Epoch-based sources fill
// Millis and set IsEpoch; chat exports carry an ISO-like string in Text.
type Timestamp struct {
	Millis  int64  `json:"millis,omitempty"`
	Text    string `json:"text,omitempty"`
	IsEpoch bool   `json:"is_epoch,omitempty"`
}

func EpochTimestamp(millis int64) Timestamp {
	return Timestamp{Millis: millis, IsEpoch: true}
}

func TextTimestamp(text string) Timestamp {
	return Timestamp{Text: text}
}

// Compare orders two timestamps. Epoch values compare numerically,
// everything else compares by Text, which sorts ISO-8601 strings correctly.
func (t Timestamp) Compare(other Timestamp) int {
	if t.IsEpoch && other.IsEpoch {
		return cmp.Compare(t.Millis, other.Millis)
	}
	return strings.Compare(t.Text, other.Text)
}

type Message struct {
	Sender       string    `json:"sender"`
	Text         string    `json:"text"`
	Timestamp    Timestamp `json:"timestamp"`
	ReadableDate string    `json:"readable_date,omitempty"`
	Attachments  []string  `json:"attachments"`
	Files        []string  `json:"files"`
}

type Conversation struct {
	DisplayName string     `json:"display_name"`
	GroupKey    string     `json:"group_key"`
	Source      SourceKind `json:"source"`
	Messages    []Message  `json:"messages"`
}

func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// UserBundle is the per-user re-packaging of a multi-user chat export.
// Conversations are kept as the raw records found in the archive.
type UserBundle struct {
	UserName      string            `json:"user_name"`
	Timestamp     string            `json:"timestamp"`
	Conversations []json.RawMessage `json:"conversations"`
}
