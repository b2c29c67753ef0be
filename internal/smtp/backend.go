package smtp

import (
	"github.com/emersion/go-smtp"

	"formrelay/internal/logger"
)

// Backend реализует интерфейс smtp.Backend
// Он создаёт сессии для каждого входящего соединения
type Backend struct {
	outbox *Outbox                // Куда складываются принятые письма
	log    *logger.Logger         // Логгер
	onMail func(*CapturedMessage) // Необязательный обработчик каждого письма
}

// NewBackend создаёт новый SMTP-бэкенд
func NewBackend(outbox *Outbox, log *logger.Logger) *Backend {
	return &Backend{
		outbox: outbox,
		log:    log,
	}
}

// OnMail задаёт обработчик, который вызывается после сохранения письма
func (b *Backend) OnMail(fn func(*CapturedMessage)) {
	b.onMail = fn
}

// NewSession создаёт новую сессию для входящего соединения
// Вызывается при каждом новом подключении к SMTP-серверу
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	b.log.Debug().Str("hostname", c.Hostname()).Msg("новое SMTP-соединение")

	return &Session{
		backend: b,
	}, nil
}
