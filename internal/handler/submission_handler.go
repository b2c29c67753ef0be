package handler

import (
	"github.com/gofiber/fiber/v2"

	"formrelay/internal/service"
)

// SubmissionHandler — обработчик форм «Откликнуться» и «Связаться с нами»
type SubmissionHandler struct {
	dispatcher *service.Dispatcher
}

// NewSubmissionHandler создаёт новый обработчик
func NewSubmissionHandler(dispatcher *service.Dispatcher) *SubmissionHandler {
	return &SubmissionHandler{dispatcher: dispatcher}
}

// Apply принимает отклик на вакансию
// @Summary Отправить отклик на вакансию
// @Description Отправляет кандидату подтверждение, затем уведомление HR. Резюме (поле attachment) уходит только HR.
// @Tags forms
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce json
// @Param firstName formData string false "Имя"
// @Param lastName formData string false "Фамилия"
// @Param email formData string false "Email кандидата"
// @Param jobDetail formData string false "Вакансия"
// @Param attachment formData file false "Резюме"
// @Success 200 {object} MessageResponse "Письма отправлены"
// @Failure 400 {object} ErrorResponse "Не удалось разобрать тело запроса"
// @Failure 500 {object} ErrorResponse "Ошибка отправки письма"
// @Router /apply [post]
func (h *SubmissionHandler) Apply(c *fiber.Ctx) error {
	app, err := parseApplication(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	result, err := h.dispatcher.SubmitApplication(c.UserContext(), app)
	if err != nil {
		// Текст ошибки транспорта уходит клиенту как есть
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(MessageResponse{Message: result})
}

// SendMessage принимает обращение из контактной формы
// @Summary Отправить обращение
// @Description Отправляет автору подтверждение, затем пересылает обращение HR
// @Tags forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name formData string false "Имя"
// @Param email formData string false "Email автора"
// @Param subject formData string false "Тема"
// @Param message formData string false "Текст обращения"
// @Success 200 {object} MessageResponse "Письма отправлены"
// @Failure 400 {object} ErrorResponse "Не удалось разобрать тело запроса"
// @Failure 500 {object} ErrorResponse "Ошибка отправки письма"
// @Router /send-message [post]
func (h *SubmissionHandler) SendMessage(c *fiber.Ctx) error {
	inq, err := parseInquiry(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	result, err := h.dispatcher.SubmitInquiry(c.UserContext(), inq)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(MessageResponse{Message: result})
}
