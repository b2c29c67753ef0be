package service

import (
	"sync"
	"time"
)

// Stats хранит статистику работы сервиса
type Stats struct {
	mu   sync.RWMutex // Мьютекс для безопасного доступа
	data Snapshot
}

// Snapshot — значения счётчиков на момент вызова GetStats
type Snapshot struct {
	TotalApplications    int64     `json:"total_applications"`    // Всего откликов
	TotalInquiries       int64     `json:"total_inquiries"`       // Всего обращений
	AttachmentsRelayed   int64     `json:"attachments_relayed"`   // Резюме, переданных HR
	AcknowledgmentFailed int64     `json:"acknowledgment_failed"` // Не ушло подтверждение отправителю
	NotificationFailed   int64     `json:"notification_failed"`   // Не ушло уведомление HR
	LastSubmission       time.Time `json:"last_submission"`       // Время последней заявки
}

// NewStats создаёт пустую статистику
func NewStats() *Stats {
	return &Stats{}
}

// IncrementApplications увеличивает счётчик откликов
func (s *Stats) IncrementApplications() {
	s.mu.Lock()         // Блокируем для записи
	defer s.mu.Unlock() // Разблокируем при выходе
	s.data.TotalApplications++
	s.data.LastSubmission = time.Now()
}

// IncrementInquiries увеличивает счётчик обращений
func (s *Stats) IncrementInquiries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.TotalInquiries++
	s.data.LastSubmission = time.Now()
}

// IncrementAttachments увеличивает счётчик переданных резюме
func (s *Stats) IncrementAttachments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AttachmentsRelayed++
}

// IncrementFailures учитывает ошибку отправки на этапе stage
func (s *Stats) IncrementFailures(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch stage {
	case StageAcknowledgment:
		s.data.AcknowledgmentFailed++
	case StageNotification:
		s.data.NotificationFailed++
	}
}

// GetStats возвращает копию статистики
func (s *Stats) GetStats() Snapshot {
	s.mu.RLock()         // Блокируем для чтения
	defer s.mu.RUnlock() // Разблокируем при выходе
	return s.data
}
