package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"formrelay/internal/domain"
)

// Поля формы, в которых может прийти резюме
// "attachments" присылал старый JSON-вариант формы
var attachmentFields = []string{"attachment", "attachments"}

// ErrMalformedBody — тело запроса не удалось разобрать
var ErrMalformedBody = errors.New("некорректное тело запроса")

// applicationRequest — JSON-вариант формы отклика
// Старые версии формы присылали тему в поле subject вместо jobDetail
type applicationRequest struct {
	domain.JobApplication
	Subject string `json:"subject"`
}

// parseApplication собирает анкету из JSON или полей формы
// Отсутствующие поля остаются пустыми, это не ошибка
func parseApplication(c *fiber.Ctx) (*domain.JobApplication, error) {
	var app domain.JobApplication
	var subject string

	if c.Is("json") {
		var req applicationRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		app, subject = req.JobApplication, req.Subject
	} else {
		field, err := bodyFields(c)
		if err != nil {
			return nil, err
		}
		app = domain.JobApplication{
			FirstName:          field("firstName"),
			LastName:           field("lastName"),
			Email:              field("email"),
			Mobile:             field("mobile"),
			PrimarySkills:      field("primarySkills"),
			CurrentDesignation: field("currentDesignation"),
			Message:            field("message"),
			USCitizen:          domain.Flag(field("usCitizen")),
			VisaSponsorship:    domain.Flag(field("visaSponsorship")),
			JobDetail:          field("jobDetail"),
		}
		subject = field("subject")
	}

	if app.JobDetail == "" {
		app.JobDetail = subject
	}

	attachment, err := readAttachment(c)
	if err != nil {
		return nil, err
	}
	app.Attachment = attachment

	return &app, nil
}

// parseInquiry собирает обращение из JSON или полей формы
func parseInquiry(c *fiber.Ctx) (*domain.Inquiry, error) {
	if c.Is("json") {
		var inq domain.Inquiry
		if err := c.BodyParser(&inq); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return &inq, nil
	}

	field, err := bodyFields(c)
	if err != nil {
		return nil, err
	}

	return &domain.Inquiry{
		Name:    field("name"),
		Email:   field("email"),
		Subject: field("subject"),
		Message: field("message"),
	}, nil
}

// bodyFields возвращает доступ к полям формы из тела запроса
// Параметры строки запроса не учитываются, в отличие от c.FormValue
func bodyFields(c *fiber.Ctx) (func(string) string, error) {
	if !isMultipart(c) {
		args := c.Request().PostArgs()
		return func(key string) string {
			return string(args.Peek(key))
		}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// readAttachment читает файл из multipart-запроса целиком в память
// Поток файла можно прочитать только один раз, а нужен он позже, при сборке письма HR
func readAttachment(c *fiber.Ctx) (*domain.Attachment, error) {
	if !isMultipart(c) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	for _, field := range attachmentFields {
		files := form.File[field]
		// Браузер присылает пустую часть без имени, если файл не выбран
		if len(files) == 0 || files[0].Filename == "" {
			continue
		}
		return bufferFile(files[0])
	}

	return nil, nil
}

// bufferFile копирует содержимое файла и очищает его имя
func bufferFile(fh *multipart.FileHeader) (*domain.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	// Если браузер не указал тип, определяем по содержимому
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		contentType = mimetype.Detect(data).String()
	}

	return &domain.Attachment{
		Filename:    domain.SecureFilename(fh.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}
