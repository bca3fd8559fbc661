package smsbackup

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/importers"
)

const readableDateLayout = "Jan 02, 2006 03:04:05 PM"

// ReadableDate formats epoch milliseconds as a UTC display date,
// e.g. "Jan 05, 2024 03:07:42 PM".
func ReadableDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(readableDateLayout)
}

// parseMillis reads a date attribute; missing or invalid values become 0.
func parseMillis(value string) int64 {
	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return millis
}

func senderFor(marker, contactName string) string {
	if marker == ReceivedMarker {
		return contactName
	}
	return OwnerSender
}

// MMSText joins the text of every text/plain part with newlines.
func MMSText(parts []Part) string {
	var texts []string
	for _, part := range parts {
		if part.ContentType == TextPlain {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// Converter turns a decoded backup into messages grouped by address.
type Converter struct {
	Backup   *Backup
	FilePath string
}

func NewConverter(backup *Backup, filePath string) *Converter {
	return &Converter{Backup: backup, FilePath: filePath}
}

// Convert implements importers.Converter. Every <sms> record is emitted
// before any <mms> record, each kind in document order, so an SMS and an
// MMS with equal dates render SMS first.
func (c *Converter) Convert() ([]importers.RawMessage, importers.Source) {
	source := importers.Source{Kind: entities.SourceSMS, FilePath: c.FilePath}
	if c.Backup == nil {
		return nil, source
	}

	messages := make([]importers.RawMessage, 0, len(c.Backup.Records))
	for _, record := range c.Backup.Records {
		if sms := record.SMS; sms != nil {
			messages = append(messages, newRawMessage(
				sms.Address,
				sms.ContactName,
				senderFor(sms.Type, sms.ContactName),
				sms.Body,
				sms.Date,
			))
		}
	}
	for _, record := range c.Backup.Records {
		if mms := record.MMS; mms != nil {
			messages = append(messages, newRawMessage(
				mms.Address,
				mms.ContactName,
				senderFor(mms.MsgBox, mms.ContactName),
				MMSText(mms.Parts),
				mms.Date,
			))
		}
	}

	return messages, source
}

func newRawMessage(address, contactName, sender, text, date string) importers.RawMessage {
	millis := parseMillis(date)
	return importers.RawMessage{
		GroupKey:         address,
		ConversationName: contactName,
		Message: entities.Message{
			Sender:       sender,
			Text:         text,
			Timestamp:    entities.EpochTimestamp(millis),
			ReadableDate: ReadableDate(millis),
			Attachments:  []string{},
			Files:        []string{},
		},
	}
}

// Compile-time interface check
var _ importers.Converter = (*Converter)(nil)
