package smtp

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Session обрабатывает одну SMTP-сессию (одно письмо)
type Session struct {
	backend *Backend // Ссылка на бэкенд
	user    string   // Имя из AUTH PLAIN, если клиент авторизовался
	from    string   // Адрес отправителя
	to      []string // Адреса получателей
}

// AuthMechanisms — поддерживаем только PLAIN
func (s *Session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

// Auth принимает любые учётные данные: приёмник нужен для разработки
func (s *Session) Auth(mech string) (sasl.Server, error) {
	if mech != sasl.Plain {
		return nil, smtp.ErrAuthUnsupported
	}
	return sasl.NewPlainServer(func(identity, username, password string) error {
		s.user = username
		return nil
	}), nil
}

// Mail вызывается, когда клиент сообщает адрес отправителя (MAIL FROM)
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	return nil
}

// Rcpt вызывается для каждого получателя (RCPT TO)
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	address := extractEmail(to)
	if address == "" {
		return &smtp.SMTPError{
			Code:    553,
			Message: "Пустой адрес получателя",
		}
	}

	s.to = append(s.to, address)
	return nil
}

// Data вызывается, когда клиент отправляет содержимое письма
func (s *Session) Data(r io.Reader) error {
	msg, err := parseMessage(r)
	if err != nil {
		s.backend.log.Warn().Err(err).Msg("ошибка парсинга письма")
		return &smtp.SMTPError{
			Code:    554,
			Message: "Не удалось разобрать письмо",
		}
	}

	msg.EnvelopeFrom = s.from
	msg.EnvelopeTo = append([]string(nil), s.to...)
	msg.ReceivedAt = time.Now()

	s.backend.outbox.Add(*msg)

	s.backend.log.Info().
		Str("from", s.from).
		Strs("to", s.to).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Str("user", s.user).
		Msg("письмо принято")

	if s.backend.onMail != nil {
		s.backend.onMail(msg)
	}

	return nil
}

// parseMessage разбирает письмо: заголовки, текст, HTML и вложения
func parseMessage(r io.Reader) (*CapturedMessage, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	msg := &CapturedMessage{}
	msg.ID, _ = mr.Header.MessageID()

	// Subject() сам декодирует MIME-слова (=?UTF-8?B?...?=)
	if msg.Subject, err = mr.Header.Subject(); err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}

	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			msg.To = append(msg.To, addr.Address)
		}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, err
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if strings.HasPrefix(contentType, "text/html") {
				msg.BodyHTML = string(data)
			} else {
				msg.BodyText = string(data)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			msg.Attachments = append(msg.Attachments, CapturedAttachment{
				Filename:    filename,
				ContentType: contentType,
				Data:        data,
			})
		}
	}

	return msg, nil
}

// Reset вызывается для сброса сессии
func (s *Session) Reset() {
	s.from = ""
	s.to = nil
}

// Logout вызывается при завершении сессии
func (s *Session) Logout() error {
	return nil
}

// extractEmail извлекает email из строки вида "Name <email@domain.com>"
func extractEmail(s string) string {
	// Если есть угловые скобки, извлекаем email из них
	if start := strings.Index(s, "<"); start != -1 {
		if end := strings.Index(s, ">"); end > start {
			return strings.TrimSpace(s[start+1 : end])
		}
	}
	return strings.TrimSpace(s)
}
