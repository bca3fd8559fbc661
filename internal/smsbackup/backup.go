package smsbackup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	// ReceivedMarker is the type (SMS) or msg_box (MMS) value of a message
	// sent by the contact. Every other value marks a message by the owner.
	ReceivedMarker = "1"
	// OwnerSender is the sender name used for messages written by the owner.
	OwnerSender = "user"
	// TextPlain is the content type of MMS parts rendered as text.
	TextPlain = "text/plain"
)

var ErrNoRoot = errors.New("backup has no root element")

type SMS struct {
	Address     string `xml:"address,attr"`
	ContactName string `xml:"contact_name,attr"`
	Body        string `xml:"body,attr"`
	Type        string `xml:"type,attr"`
	Date        string `xml:"date,attr"`
}

type Part struct {
	ContentType string `xml:"ct,attr"`
	Text        string `xml:"text,attr"`
}

type MMS struct {
	Address     string `xml:"address,attr"`
	ContactName string `xml:"contact_name,attr"`
	MsgBox      string `xml:"msg_box,attr"`
	Date        string `xml:"date,attr"`
	Parts       []Part `xml:"parts>part"`
}

// Record is one <sms> or <mms> element; exactly one field is set.
type Record struct {
	SMS *SMS
	MMS *MMS
}

// Backup holds the message records of one file in document order.
type Backup struct {
	Records []Record
}

// Parse decodes a backup document. Only direct children of the root element
// named sms or mms are read; everything else is skipped.
func Parse(data []byte) (*Backup, error) {
	return Decode(bytes.NewReader(data))
}

func Decode(r io.Reader) (*Backup, error) {
	decoder := xml.NewDecoder(r)
	backup := &Backup{}
	depth := 0
	sawRoot := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse backup: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			if depth == 0 {
				sawRoot = true
				depth++
				continue
			}

			record, err := decodeRecord(decoder, el)
			if err != nil {
				return nil, fmt.Errorf("failed to parse <%s>: %w", el.Name.Local, err)
			}
			if record != nil {
				backup.Records = append(backup.Records, *record)
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return nil, ErrNoRoot
	}
	return backup, nil
}

// decodeRecord consumes the element started by el, including its end tag.
func decodeRecord(decoder *xml.Decoder, el xml.StartElement) (*Record, error) {
	switch el.Name.Local {
	case "sms":
		var sms SMS
		if err := decoder.DecodeElement(&sms, &el); err != nil {
			return nil, err
		}
		return &Record{SMS: &sms}, nil
	case "mms":
		var mms MMS
		if err := decoder.DecodeElement(&mms, &el); err != nil {
			return nil, err
		}
		return &Record{MMS: &mms}, nil
	default:
		return nil, decoder.Skip()
	}
}
