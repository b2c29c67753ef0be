package smtp

import (
	"sync"
	"time"
)

// CapturedMessage — письмо, принятое SMTP-приёмником
type CapturedMessage struct {
	ID           string               // Message-ID из заголовков
	EnvelopeFrom string               // Отправитель из MAIL FROM
	EnvelopeTo   []string             // Получатели из RCPT TO
	From         string               // Заголовок From
	To           []string             // Заголовок To
	Subject      string               // Тема письма
	BodyText     string               // Текстовое содержимое
	BodyHTML     string               // HTML содержимое
	Attachments  []CapturedAttachment // Вложения
	ReceivedAt   time.Time            // Время приёма
}

// CapturedAttachment — вложение принятого письма
type CapturedAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Outbox хранит последние принятые письма в памяти
type Outbox struct {
	mu       sync.RWMutex // Мьютекс для безопасного доступа
	messages []CapturedMessage
	keep     int // Сколько писем хранить
}

// NewOutbox создаёт хранилище на keep писем
func NewOutbox(keep int) *Outbox {
	if keep <= 0 {
		keep = 100
	}
	return &Outbox{keep: keep}
}

// Add добавляет письмо, вытесняя самое старое при переполнении
func (o *Outbox) Add(msg CapturedMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.messages = append(o.messages, msg)
	if over := len(o.messages) - o.keep; over > 0 {
		o.messages = append([]CapturedMessage(nil), o.messages[over:]...)
	}
}

// Messages возвращает копию списка писем (от старых к новым)
func (o *Outbox) Messages() []CapturedMessage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]CapturedMessage(nil), o.messages...)
}

// Len возвращает количество хранимых писем
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.messages)
}

// Reset очищает хранилище
func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}
