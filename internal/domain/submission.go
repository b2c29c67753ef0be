package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// JobApplication — отклик на вакансию из формы на сайте
// Адрес Email не проверяется: он используется как есть для ответного письма
type JobApplication struct {
	FirstName          string      `json:"firstName"`
	LastName           string      `json:"lastName"`
	Email              string      `json:"email"`
	Mobile             string      `json:"mobile"`
	PrimarySkills      string      `json:"primarySkills"`
	CurrentDesignation string      `json:"currentDesignation"`
	Message            string      `json:"message"`
	USCitizen          Flag        `json:"usCitizen"`
	VisaSponsorship    Flag        `json:"visaSponsorship"`
	JobDetail          string      `json:"jobDetail"` // Вакансия, попадает в тему писем
	Attachment         *Attachment `json:"-"`         // nil, если резюме не приложено
}

// FullName возвращает имя и фамилию через пробел
func (a *JobApplication) FullName() string {
	return a.FirstName + " " + a.LastName
}

// HasAttachment сообщает, приложен ли файл
func (a *JobApplication) HasAttachment() bool {
	return a.Attachment != nil
}

// Inquiry — сообщение из контактной формы
type Inquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Attachment — файл из запроса, полностью прочитанный в память
type Attachment struct {
	Filename    string // Имя без каталогов и опасных символов
	ContentType string // MIME-тип (например, application/pdf)
	Data        []byte
}

// Size возвращает размер вложения в байтах
func (a *Attachment) Size() int {
	return len(a.Data)
}

// Flag — значение «да/нет» из формы
// Форма присылает строки, JSON-вариант — true/false; храним как текст
type Flag string

// Значения, в которые превращаются JSON-булевы
const (
	FlagTrue  Flag = "True"
	FlagFalse Flag = "False"
)

// UnmarshalJSON принимает bool, строку, число или null
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case bytes.Equal(data, []byte("true")):
		*f = FlagTrue
	case bytes.Equal(data, []byte("false")):
		*f = FlagFalse
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(s)
	default:
		// Число или что-то ещё — сохраняем текстом
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("flag: неподдерживаемое значение %s", data)
		}
		*f = Flag(data)
	}
	return nil
}

// String возвращает значение для подстановки в письмо
func (f Flag) String() string {
	return string(f)
}
