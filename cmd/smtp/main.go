package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"formrelay/internal/config"
	"formrelay/internal/logger"
	smtpserver "formrelay/internal/smtp"
)

// SMTP-приёмник для локальной разработки:
// MAIL_SERVER=localhost MAIL_PORT=2525 MAIL_USE_TLS=false направляет письма сюда
func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка загрузки конфигурации:", err)
	}

	appLog, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer appLog.Close()

	fmt.Println("=== FormRelay SMTP Capture ===")

	server := smtpserver.NewServer(cfg.Server, cfg.Limits, appLog.Component("smtp"))

	// STARTTLS, если задан сертификат
	if cfg.Server.TLSCert != "" {
		if err := server.EnableTLS(cfg.Server.TLSCert, cfg.Server.TLSKey); err != nil {
			log.Fatal("Ошибка TLS:", err)
		}
		fmt.Println("STARTTLS включён")
	}

	// Печатаем каждое принятое письмо
	server.OnMail(func(msg *smtpserver.CapturedMessage) {
		fmt.Printf("\n--- %s ---\n", msg.ReceivedAt.Format("15:04:05"))
		fmt.Printf("From: %s\nTo: %v\nSubject: %s\n\n%s\n", msg.From, msg.To, msg.Subject, msg.BodyText)
		for _, a := range msg.Attachments {
			fmt.Printf("[вложение] %s (%s, %d байт)\n", a.Filename, a.ContentType, len(a.Data))
		}
	})

	// Запускаем SMTP-приёмник в отдельной горутине
	go func() {
		if err := server.Start(); err != nil {
			appLog.Error().Err(err).Msg("SMTP-приёмник остановлен")
		}
	}()

	fmt.Printf("\nSMTP-приёмник запущен на порту %d\n", cfg.Server.SMTPPort)
	fmt.Println("SIGHUP очищает сохранённые письма, Ctrl+C останавливает")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range signals {
		if sig == syscall.SIGHUP {
			dropped := server.Outbox().Len()
			server.Outbox().Reset()
			appLog.Info().Int("dropped", dropped).Msg("хранилище писем очищено")
			continue
		}
		break
	}

	fmt.Println("\nОстановка SMTP-приёмника...")
	if err := server.Close(); err != nil {
		appLog.Error().Err(err).Msg("ошибка остановки SMTP-приёмника")
	}
}
