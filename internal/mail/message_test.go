package mail

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	gomail "github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decoded — то, что получатель увидит после разбора письма
type decoded struct {
	subject     string
	from        string
	to          []string
	text        string
	html        string
	attachments map[string][]byte
	types       map[string]string
}

func decode(t *testing.T, raw []byte) decoded {
	t.Helper()

	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	d := decoded{attachments: map[string][]byte{}, types: map[string]string{}}
	d.subject, err = mr.Header.Subject()
	require.NoError(t, err)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	d.from = from[0].Name + " <" + from[0].Address + ">"

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	for _, a := range to {
		d.to = append(d.to, a.Address)
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		body, err := io.ReadAll(p.Body)
		require.NoError(t, err)

		switch h := p.Header.(type) {
		case *gomail.InlineHeader:
			ct, _, _ := h.ContentType()
			if ct == "text/html" {
				d.html = string(body)
			} else {
				d.text = string(body)
			}
		case *gomail.AttachmentHeader:
			name, _ := h.Filename()
			ct, _, _ := h.ContentType()
			d.attachments[name] = body
			d.types[name] = ct
		}
	}
	return d
}

func TestMessage_EncodePlainText(t *testing.T) {
	msg := &Message{
		To:      []string{"jane@example.com"},
		Subject: "Application Received: Backend Engineer",
		Text:    "Hello Jane Doe,\n\nThank you.",
	}

	var buf bytes.Buffer
	require.NoError(t, msg.Encode(&buf, "Careers <jobs@example.com>"))

	assert.NotContains(t, buf.String(), "multipart")

	d := decode(t, buf.Bytes())
	assert.Equal(t, "Careers <jobs@example.com>", d.from)
	assert.Equal(t, "Application Received: Backend Engineer", d.subject)
	assert.Equal(t, []string{"jane@example.com"}, d.to)
	assert.Equal(t, "Hello Jane Doe,\n\nThank you.", d.text)
	assert.Empty(t, d.attachments)
}

func TestMessage_EncodeWithAttachmentAndHTML(t *testing.T) {
	pdf := []byte("%PDF-1.4\x00\x01binary")
	msg := &Message{
		To:      []string{"hr@example.com"},
		Subject: "New Job Application: Тестировщик",
		Text:    "plain",
		HTML:    "<p>html</p>",
		Attachments: []Attachment{
			{Filename: "cv.pdf", ContentType: "application/pdf", Data: pdf},
			{Filename: "notes", Data: []byte("x")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, msg.Encode(&buf, "jobs@example.com"))

	d := decode(t, buf.Bytes())
	assert.Equal(t, "New Job Application: Тестировщик", d.subject)
	assert.Equal(t, "plain", d.text)
	assert.Equal(t, "<p>html</p>", d.html)
	assert.Equal(t, pdf, d.attachments["cv.pdf"])
	assert.Equal(t, "application/pdf", d.types["cv.pdf"])
	assert.Equal(t, "application/octet-stream", d.types["notes"])
}

func TestMessage_EncodeErrors(t *testing.T) {
	var buf bytes.Buffer

	err := (&Message{Subject: "x"}).Encode(&buf, "jobs@example.com")
	assert.ErrorIs(t, err, ErrNoRecipients)

	err = (&Message{To: []string{"not an address"}}).Encode(&buf, "jobs@example.com")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.True(t, strings.Contains(err.Error(), "not an address"))

	err = (&Message{To: []string{"a@b.com"}}).Encode(&buf, "")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestEnvelopeAddress(t *testing.T) {
	addr, err := EnvelopeAddress("Careers <jobs@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "jobs@example.com", addr)

	_, err = EnvelopeAddress("@@")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
