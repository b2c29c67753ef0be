package service

import (
	"context"
	"errors"
	"fmt"

	"formrelay/internal/config"
	"formrelay/internal/domain"
	"formrelay/internal/logger"
	"formrelay/internal/mail"
)

// Ответы при успешной отправке
const (
	ApplicationSubmitted = "Application submitted successfully"
	InquirySubmitted     = "Inquiry submitted successfully"
)

// ErrNilSubmission — в диспетчер передали пустую анкету
var ErrNilSubmission = errors.New("пустая заявка")

// Stage — этап отправки, на котором произошла ошибка
type Stage string

// Этапы отправки
const (
	StageAcknowledgment Stage = "acknowledgment" // Письмо отправителю
	StageNotification   Stage = "notification"   // Письмо HR
)

// SendError — транспорт не смог отправить одно из двух писем
type SendError struct {
	Stage Stage
	Err   error
}

// Error возвращает текст для ответа клиенту
// Ошибка письма HR отличается префиксом
func (e *SendError) Error() string {
	if e.Stage == StageNotification {
		return "Failed to send email to HR: " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap возвращает исходную ошибку транспорта
func (e *SendError) Unwrap() error {
	return e.Err
}

// Transport — отправка одного письма (SMTP или заглушка в тестах)
type Transport interface {
	Send(ctx context.Context, msg *mail.Message) error
}

// Renderer — HTML-шаблоны писем
type Renderer interface {
	Render(name string, vars mail.Vars) (string, error)
}

// Dispatcher отправляет подтверждение и внутреннее уведомление по заявке
// Письма уходят строго по очереди: уведомление HR только после подтверждения
type Dispatcher struct {
	transport Transport
	renderer  Renderer // nil — только plain text
	config    config.MailConfig
	stats     *Stats
	log       *logger.Logger
}

// NewDispatcher создаёт диспетчер
// renderer обязателен, если в конфигурации выбран формат html
func NewDispatcher(
	transport Transport,
	renderer Renderer,
	cfg config.MailConfig,
	stats *Stats,
	log *logger.Logger,
) (*Dispatcher, error) {
	if cfg.BodyFormat == config.BodyFormatHTML && renderer == nil {
		return nil, errors.New("для MAIL_BODY_FORMAT=html нужен рендерер шаблонов")
	}
	if cfg.BodyFormat != config.BodyFormatHTML {
		renderer = nil
	}
	if stats == nil {
		stats = NewStats()
	}

	return &Dispatcher{
		transport: transport,
		renderer:  renderer,
		config:    cfg,
		stats:     stats,
		log:       log,
	}, nil
}

// SubmitApplication отправляет письма по отклику на вакансию
func (d *Dispatcher) SubmitApplication(ctx context.Context, app *domain.JobApplication) (string, error) {
	if app == nil {
		return "", ErrNilSubmission
	}
	d.stats.IncrementApplications()

	if app.HasAttachment() {
		d.log.Debug().
			Str("filename", app.Attachment.Filename).
			Str("content_type", app.Attachment.ContentType).
			Int("size", app.Attachment.Size()).
			Msg("резюме приложено к отклику")
	}

	vars := mail.Vars{"Application": app, "CompanyName": d.config.CompanyName}

	ack := applicationAck(app, d.config.CompanyName)
	notification := applicationNotification(app, d.config.HREmail)

	err := d.deliver(ctx, ack, mail.TemplateApplicationAck, notification, mail.TemplateApplicationNotification, vars)
	if err != nil {
		return "", err
	}

	if app.HasAttachment() {
		d.stats.IncrementAttachments()
	}
	return ApplicationSubmitted, nil
}

// SubmitInquiry отправляет письма по обращению из контактной формы
func (d *Dispatcher) SubmitInquiry(ctx context.Context, inq *domain.Inquiry) (string, error) {
	if inq == nil {
		return "", ErrNilSubmission
	}
	d.stats.IncrementInquiries()

	vars := mail.Vars{"Inquiry": inq, "CompanyName": d.config.CompanyName}

	ack := inquiryAck(inq, d.config.CompanyName)
	notification := inquiryNotification(inq, d.config.HREmail)

	err := d.deliver(ctx, ack, mail.TemplateInquiryAck, notification, mail.TemplateInquiryNotification, vars)
	if err != nil {
		return "", err
	}
	return InquirySubmitted, nil
}

// deliver отправляет подтверждение, затем уведомление
// Если подтверждение не ушло, уведомление не отправляется
// Если не ушло уведомление, подтверждение не отзывается
func (d *Dispatcher) deliver(
	ctx context.Context,
	ack *mail.Message, ackTemplate string,
	notification *mail.Message, notificationTemplate string,
	vars mail.Vars,
) error {
	if err := d.render(ack, ackTemplate, vars); err != nil {
		return err
	}
	if err := d.send(ctx, StageAcknowledgment, ack); err != nil {
		d.stats.IncrementFailures(StageAcknowledgment)
		return err
	}

	if err := d.render(notification, notificationTemplate, vars); err != nil {
		return err
	}
	if err := d.send(ctx, StageNotification, notification); err != nil {
		d.stats.IncrementFailures(StageNotification)
		return err
	}

	return nil
}

// render добавляет HTML-версию письма, если включены шаблоны
func (d *Dispatcher) render(msg *mail.Message, name string, vars mail.Vars) error {
	if d.renderer == nil {
		return nil
	}

	page := make(mail.Vars, len(vars)+1)
	for k, v := range vars {
		page[k] = v
	}
	page["Subject"] = msg.Subject

	html, err := d.renderer.Render(name, page)
	if err != nil {
		return fmt.Errorf("шаблон %s: %w", name, err)
	}
	msg.HTML = html
	return nil
}

// send передаёт письмо транспорту и оборачивает ошибку этапом
func (d *Dispatcher) send(ctx context.Context, stage Stage, msg *mail.Message) error {
	if err := d.transport.Send(ctx, msg); err != nil {
		d.log.Error().
			Err(err).
			Str("stage", string(stage)).
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("письмо не отправлено")
		return &SendError{Stage: stage, Err: err}
	}

	d.log.Info().
		Str("stage", string(stage)).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("письмо отправлено")
	return nil
}
