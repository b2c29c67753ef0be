package smtp

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-smtp"

	"formrelay/internal/config"
	"formrelay/internal/logger"
)

// Server — SMTP-приёмник для разработки и тестов
// Принимает любые письма и складывает их в Outbox вместо доставки
type Server struct {
	server  *smtp.Server
	backend *Backend
	outbox  *Outbox
	log     *logger.Logger
}

// NewServer создаёт новый SMTP-приёмник
func NewServer(cfg config.ServerConfig, limits config.LimitsConfig, log *logger.Logger) *Server {
	outbox := NewOutbox(limits.CaptureKeep)
	backend := NewBackend(outbox, log)

	server := smtp.NewServer(backend)

	server.Addr = fmt.Sprintf(":%d", cfg.SMTPPort)        // Адрес для прослушивания
	server.Domain = "localhost"                           // Имя в приветствии
	server.ReadTimeout = 30 * time.Second                 // Таймаут чтения
	server.WriteTimeout = 30 * time.Second                // Таймаут записи
	server.MaxMessageBytes = int64(limits.MaxMessageSize) // Макс. размер письма
	server.MaxRecipients = 10                             // Макс. получателей
	server.AllowInsecureAuth = true                       // AUTH без TLS (только для разработки)

	return &Server{
		server:  server,
		backend: backend,
		outbox:  outbox,
		log:     log,
	}
}

// Outbox возвращает хранилище принятых писем
func (s *Server) Outbox() *Outbox {
	return s.outbox
}

// OnMail задаёт обработчик каждого принятого письма
func (s *Server) OnMail(fn func(*CapturedMessage)) {
	s.backend.OnMail(fn)
}

// EnableTLS включает STARTTLS с сертификатом из PEM-файлов
func (s *Server) EnableTLS(certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("сертификат SMTP-приёмника: %w", err)
	}
	s.server.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	return nil
}

// Start запускает SMTP-приёмник на порту из конфигурации
// ListenAndServe блокирует выполнение
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("SMTP-приёмник запущен")
	return s.server.ListenAndServe()
}

// Serve принимает соединения на готовом listener (удобно в тестах)
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Close останавливает SMTP-приёмник
func (s *Server) Close() error {
	return s.server.Close()
}
