package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"formrelay/internal/config"
	"formrelay/internal/logger"
	"formrelay/internal/service"
)

// NewApp создаёт Fiber-приложение со всеми маршрутами
func NewApp(
	limits config.LimitsConfig,
	submissionHandler *SubmissionHandler,
	stats *service.Stats,
	log *logger.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "FormRelay",
		BodyLimit:    limits.MaxMessageSize,
		ErrorHandler: ErrorHandler,
	})

	SetupRoutes(app, submissionHandler, stats, log)
	return app
}

// SetupRoutes настраивает все маршруты приложения
func SetupRoutes(
	app *fiber.App,
	submissionHandler *SubmissionHandler,
	stats *service.Stats,
	log *logger.Logger,
) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Формы сайта
	app.Post("/apply", submissionHandler.Apply)
	app.Post("/send-message", submissionHandler.SendMessage)

	// Health check
	// @Summary Проверка здоровья
	// @Description Возвращает статус сервера
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]string "Статус сервера"
	// @Router /health [get]
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Статистика заявок и ошибок отправки
	// @Summary Статистика сервиса
	// @Description Счётчики заявок, переданных резюме и ошибок отправки
	// @Tags system
	// @Produce json
	// @Success 200 {object} service.Snapshot "Статистика"
	// @Router /stats [get]
	app.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(stats.GetStats())
	})
}

// requestLogger пишет строку в лог на каждый запрос
func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Ошибку ещё не превратил в ответ ErrorHandler, статус берём из неё
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error().Err(err)
		}

		event.
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")

		return err
	}
}
