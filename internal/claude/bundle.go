package claude

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/mrlokans/transcripts/internal/entities"
)

const (
	UsersMember         = "users.json"
	ConversationsMember = "conversations.json"
	// BundleGlob selects candidate archives in the input directory.
	BundleGlob = "data-*.zip"
)

var (
	ErrMissingMember  = errors.New("missing required file in zip")
	ErrInvalidArchive = errors.New("invalid archive filename")

	bundleNamePattern = regexp.MustCompile(`^data-(\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2})\.zip$`)
)

// User is an entry of users.json.
type User struct {
	UUID     string `json:"uuid"`
	FullName string `json:"full_name"`
}

// Bundle is the decoded content of one multi-user export archive.
type Bundle struct {
	Timestamp     string
	Users         []User
	Conversations []json.RawMessage
}

// BundleTimestamp extracts the timestamp from a data-YYYY-MM-DD-HH-MM-SS.zip name.
func BundleTimestamp(filename string) (string, error) {
	match := bundleNamePattern.FindStringSubmatch(filename)
	if match == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidArchive, filename)
	}
	return match[1], nil
}

// ReadBundle decodes users.json and conversations.json from a zip archive.
// Conversation records are kept undecoded so they can be written back verbatim.
func ReadBundle(data []byte) (*Bundle, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error processing zip file: %w", err)
	}

	bundle := &Bundle{}
	if err := readMember(reader, UsersMember, &bundle.Users); err != nil {
		return nil, err
	}
	if err := readMember(reader, ConversationsMember, &bundle.Conversations); err != nil {
		return nil, err
	}
	return bundle, nil
}

func readMember(reader *zip.Reader, name string, target any) error {
	file, err := reader.Open(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingMember, name)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("invalid JSON format in %s: %w", name, err)
	}
	return nil
}

type conversationHeader struct {
	Account *struct {
		UUID string `json:"uuid"`
	} `json:"account"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func (h conversationHeader) accountUUID() string {
	if h.Account == nil {
		return ""
	}
	return h.Account.UUID
}

func (h conversationHeader) sortKey() string {
	if h.CreatedAt != nil {
		return *h.CreatedAt
	}
	if h.UpdatedAt != nil {
		return *h.UpdatedAt
	}
	return ""
}

// SplitByUser groups the archive's conversations by the full name of their
// owning account. Bundles appear in the order their user was first seen.
// Conversations whose account cannot be resolved are dropped and reported
// in the returned warnings.
func SplitByUser(bundle *Bundle) ([]entities.UserBundle, []string) {
	names := make(map[string]string, len(bundle.Users))
	for _, user := range bundle.Users {
		names[user.UUID] = user.FullName
	}

	index := make(map[string]int)
	var bundles []entities.UserBundle
	var warnings []string

	for i, raw := range bundle.Conversations {
		var header conversationHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			warnings = append(warnings, fmt.Sprintf("conversation %d is not an object: %v", i, err))
			continue
		}

		uuid := header.accountUUID()
		userName, ok := names[uuid]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("No user found for UUID %s", uuid))
			continue
		}

		at, exists := index[userName]
		if !exists {
			at = len(bundles)
			index[userName] = at
			bundles = append(bundles, entities.UserBundle{
				UserName:  userName,
				Timestamp: bundle.Timestamp,
			})
		}
		bundles[at].Conversations = append(bundles[at].Conversations, raw)
	}

	for i := range bundles {
		OrderBundleConversations(bundles[i].Conversations)
	}

	return bundles, warnings
}

// OrderBundleConversations sorts raw conversation records by created_at,
// falling back to updated_at, keeping input order for equal keys.
func OrderBundleConversations(conversations []json.RawMessage) {
	type keyed struct {
		key string
		raw json.RawMessage
	}

	items := make([]keyed, len(conversations))
	for i, raw := range conversations {
		var header conversationHeader
		_ = json.Unmarshal(raw, &header)
		items[i] = keyed{key: header.sortKey(), raw: raw}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	for i, item := range items {
		conversations[i] = item.raw
	}
}
