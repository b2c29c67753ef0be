package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Имена шаблонов писем
const (
	TemplateApplicationAck          = "application_ack.md"
	TemplateApplicationNotification = "application_notification.md"
	TemplateInquiryAck              = "inquiry_ack.md"
	TemplateInquiryNotification     = "inquiry_notification.md"

	defaultLayout = "base.html"
)

// Ошибки рендеринга
var (
	ErrTemplateNotFound = errors.New("шаблон не найден")
	ErrRenderFailed     = errors.New("ошибка рендеринга шаблона")
)

//go:embed templates
var embedded embed.FS

// Vars — переменные для подстановки в шаблон
type Vars map[string]any

// cellReplacer экранирует значение для ячейки GFM-таблицы
// Перевод строки внутри ячейки закрыл бы строку таблицы
var cellReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// templateFuncs — функции, доступные в markdown-шаблонах
var templateFuncs = texttemplate.FuncMap{
	"cell": func(v any) string {
		if v == nil {
			return ""
		}
		return cellReplacer.Replace(fmt.Sprint(v))
	},
}

// Renderer превращает markdown-шаблоны в HTML письма
// Шаблоны разбираются один раз при создании, дальше только выполняются
type Renderer struct {
	templates *texttemplate.Template
	layout    *template.Template
	md        goldmark.Markdown
	policy    *bluemonday.Policy
}

// NewRenderer создаёт рендерер со встроенными шаблонами
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return NewRendererFS(sub)
}

// NewRendererFS создаёт рендерер из произвольной файловой системы
// Ожидаются *.md в корне и layouts/base.html
func NewRendererFS(fsys fs.FS) (*Renderer, error) {
	templates, err := texttemplate.New("").Funcs(templateFuncs).ParseFS(fsys, "*.md")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	layout, err := template.ParseFS(fsys, "layouts/"+defaultLayout)
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
	}

	// Сырой HTML (<br> в ячейках) пропускается, результат чистит bluemonday
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	return &Renderer{
		templates: templates,
		layout:    layout,
		md:        md,
		policy:    bluemonday.UGCPolicy(),
	}, nil
}

// Render выполняет шаблон, переводит markdown в HTML и оборачивает в layout
// Результат проходит через bluemonday: пользовательский ввод не может добавить скрипты
func (r *Renderer) Render(name string, vars Vars) (string, error) {
	tmpl := r.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var markdown bytes.Buffer
	if err := tmpl.Execute(&markdown, vars); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	layoutVars := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		layoutVars[k] = v
	}
	layoutVars["Content"] = template.HTML(r.policy.SanitizeBytes(content.Bytes()))

	var out bytes.Buffer
	if err := r.layout.ExecuteTemplate(&out, defaultLayout, layoutVars); err != nil {
		return "", fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
	}

	return out.String(), nil
}
