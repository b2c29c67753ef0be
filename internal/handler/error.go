package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse — стандартный формат ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`             // Сообщение об ошибке
	Details string `json:"details,omitempty"` // Дополнительные детали (необязательно)
}

// MessageResponse — ответ при успешной отправке заявки
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorHandler отдаёт ошибки Fiber (404, 405, 413...) в формате ErrorResponse
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: err.Error(),
	})
}
