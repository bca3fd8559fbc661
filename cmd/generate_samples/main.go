// Command generate_samples writes a small set of input files for every
// supported source, for trying the converters out locally.
// Usage: go run cmd/generate_samples/main.go [-dir path/to/data]
package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/transcripts/internal/config"
	"github.com/mrlokans/transcripts/internal/storage"
)

type sampleMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type sampleChat struct {
	UUID         string          `json:"uuid"`
	Name         string          `json:"name"`
	ChatMessages []sampleMessage `json:"chat_messages"`
}

const sampleSMS = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<smses count="4">
  <sms address="+15550100" contact_name="Alice" body="Are we still on for lunch?" type="1" date="1704190800000" readable_date="Jan 2, 2024 10:20:00 AM" />
  <sms address="+15550100" contact_name="Alice" body="Yes, 12:30 works" type="2" date="1704190860000" readable_date="Jan 2, 2024 10:21:00 AM" />
  <mms address="+15550100" contact_name="Alice" msg_box="1" date="1704194400000">
    <parts>
      <part ct="application/smil" text="" />
      <part ct="text/plain" text="Here is the menu" />
      <part ct="image/jpeg" text="" />
    </parts>
  </mms>
  <call number="+15550100" duration="42" type="1" date="1704198000000" />
</smses>
`

func main() {
	dir := flag.String("dir", config.DefaultDataDir, "directory to write sample input files to")
	flag.Parse()

	ctx := context.Background()
	client := storage.NewLocalClient(*dir)
	if err := client.EnsureRoot(); err != nil {
		log.Fatalf("Failed to create sample directory: %v", err)
	}

	chats, err := json.MarshalIndent(sampleChats(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode chat export: %v", err)
	}
	write(ctx, client, "conversations-20240102100000.json", chats)
	write(ctx, client, "sms-20240102.xml", []byte(sampleSMS))

	archive, err := sampleArchive()
	if err != nil {
		log.Fatalf("Failed to build sample archive: %v", err)
	}
	write(ctx, client, "data-2024-01-02-10-00-00.zip", archive)

	log.Infof("Sample input generated in %s", *dir)
}

func write(ctx context.Context, client storage.Client, name string, data []byte) {
	if err := client.Upload(ctx, name, bytes.NewReader(data)); err != nil {
		log.Fatalf("Failed to write %s: %v", name, err)
	}
	log.Infof("Wrote %s (%d bytes)", name, len(data))
}

func sampleChats() []sampleChat {
	return []sampleChat{
		{
			UUID: "6f1c2a9e-0000-4000-8000-000000000001",
			Name: "Trip Plan",
			ChatMessages: []sampleMessage{
				{Sender: "human", Text: "Help me plan three days in Lisbon.", CreatedAt: "2024-01-01T10:00:00Z"},
				{Sender: "assistant", Text: "Day one: Alfama and the castle.", CreatedAt: "2024-01-01T10:00:05Z"},
			},
		},
		{
			UUID: "6f1c2a9e-0000-4000-8000-000000000002",
			Name: "Recipes: bread/dough",
			ChatMessages: []sampleMessage{
				{Sender: "human", Text: "How long should dough rise?", CreatedAt: "2024-01-02T08:00:00Z"},
				{Sender: "assistant", Text: "Until roughly doubled, often 1-2 hours.", CreatedAt: "2024-01-02T08:00:04Z"},
			},
		},
	}
}

func sampleArchive() ([]byte, error) {
	users := []map[string]string{
		{"uuid": "u-1", "full_name": "Ann Lee"},
		{"uuid": "u-2", "full_name": "Bo Chen"},
	}
	conversations := []map[string]any{
		{"uuid": "c-2", "name": "Later", "account": map[string]string{"uuid": "u-1"}, "created_at": "2024-01-02T09:00:00Z"},
		{"uuid": "c-1", "name": "Earlier", "account": map[string]string{"uuid": "u-1"}, "created_at": "2024-01-01T09:00:00Z"},
		{"uuid": "c-3", "name": "Hello", "account": map[string]string{"uuid": "u-2"}, "created_at": "2024-01-01T12:00:00Z"},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, value := range map[string]any{"users.json": users, "conversations.json": conversations} {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
