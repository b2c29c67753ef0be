package main

// @title FormRelay API
// @version 1.0
// @description Приём откликов на вакансии и обращений с сайта с пересылкой по почте

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"formrelay/internal/config"
	"formrelay/internal/handler"
	"formrelay/internal/logger"
	"formrelay/internal/mail"
	"formrelay/internal/service"
)

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

	fmt.Println("=== FormRelay ===")

	// SMTP-транспорт для исходящих писем
	transport, err := mail.NewSMTPTransport(cfg.SMTP)
	if err != nil {
		appLog.Fatal().Err(err).Msg("SMTP-транспорт не создан")
	}

	// HTML-шаблоны нужны только в режиме html
	var renderer service.Renderer
	if cfg.Mail.BodyFormat == config.BodyFormatHTML {
		r, err := mail.NewRenderer()
		if err != nil {
			appLog.Fatal().Err(err).Msg("шаблоны писем не загружены")
		}
		renderer = r
	}

	// Создаём сервисы
	stats := service.NewStats()
	dispatcher, err := service.NewDispatcher(transport, renderer, cfg.Mail, stats, appLog.Component("dispatcher"))
	if err != nil {
		appLog.Fatal().Err(err).Msg("диспетчер не создан")
	}

	// Создаём обработчики и Fiber-приложение
	submissionHandler := handler.NewSubmissionHandler(dispatcher)
	app := handler.NewApp(cfg.Limits, submissionHandler, stats, appLog.Component("http"))

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		if err := app.Listen(addr); err != nil {
			appLog.Error().Err(err).Msg("HTTP-сервер остановлен")
		}
	}()

	appLog.Info().
		Int("http_port", cfg.Server.HTTPPort).
		Str("smtp", cfg.SMTP.Addr()).
		Str("hr", cfg.Mail.HREmail).
		Str("format", cfg.Mail.BodyFormat).
		Msg("сервис запущен")
	fmt.Println("Нажмите Ctrl+C для остановки")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nОстановка сервера...")
	if err := app.Shutdown(); err != nil {
		appLog.Error().Err(err).Msg("ошибка остановки HTTP-сервера")
	}
}
