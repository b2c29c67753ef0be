// Package mail — исходящие письма: модель, MIME-кодирование, SMTP-отправка и шаблоны
package mail

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomail "github.com/emersion/go-message/mail"
)

// Ошибки составления письма
var (
	ErrNoRecipients   = errors.New("у письма нет получателей")
	ErrInvalidAddress = errors.New("некорректный адрес")
)

// Message — письмо, готовое к отправке
type Message struct {
	To          []string     // Получатели
	Subject     string       // Тема
	Text        string       // Текстовое содержимое
	HTML        string       // HTML содержимое (необязательно)
	Attachments []Attachment // Вложения
}

// Attachment — вложение к письму
type Attachment struct {
	Filename    string // Имя файла
	ContentType string // MIME-тип
	Data        []byte // Содержимое
}

// Encode записывает письмо в формате RFC 5322 с MIME-частями
// from — адрес отправителя, например "Careers <jobs@example.com>"
func (m *Message) Encode(w io.Writer, from string) error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}

	sender, err := gomail.ParseAddress(from)
	if err != nil {
		return fmt.Errorf("%w: from %q: %v", ErrInvalidAddress, from, err)
	}

	to := make([]*gomail.Address, 0, len(m.To))
	for _, addr := range m.To {
		parsed, err := gomail.ParseAddress(addr)
		if err != nil {
			return fmt.Errorf("%w: to %q: %v", ErrInvalidAddress, addr, err)
		}
		to = append(to, parsed)
	}

	var h gomail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*gomail.Address{sender})
	h.SetAddressList("To", to)
	h.SetSubject(m.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return err
	}

	// Простое текстовое письмо — без multipart
	if m.HTML == "" && len(m.Attachments) == 0 {
		h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
		body, err := gomail.CreateSingleInlineWriter(w, h)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(body, m.Text); err != nil {
			return err
		}
		return body.Close()
	}

	mw, err := gomail.CreateWriter(w, h)
	if err != nil {
		return err
	}

	// Текст и HTML — альтернативные представления одного содержимого
	iw, err := mw.CreateInline()
	if err != nil {
		return err
	}
	if err := writeInlinePart(iw, "text/plain", m.Text); err != nil {
		return err
	}
	if m.HTML != "" {
		if err := writeInlinePart(iw, "text/html", m.HTML); err != nil {
			return err
		}
	}
	if err := iw.Close(); err != nil {
		return err
	}

	for _, a := range m.Attachments {
		var ah gomail.AttachmentHeader
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		ah.Set("Content-Type", contentType)
		ah.SetFilename(a.Filename)

		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return err
		}
		if _, err := aw.Write(a.Data); err != nil {
			return err
		}
		if err := aw.Close(); err != nil {
			return err
		}
	}

	return mw.Close()
}

// writeInlinePart добавляет одну текстовую часть
func writeInlinePart(iw *gomail.InlineWriter, contentType, content string) error {
	var ph gomail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})

	pw, err := iw.CreatePart(ph)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(pw, content); err != nil {
		return err
	}
	return pw.Close()
}

// EnvelopeAddress возвращает голый адрес для команды MAIL FROM / RCPT TO
func EnvelopeAddress(addr string) (string, error) {
	parsed, err := gomail.ParseAddress(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	return parsed.Address, nil
}
