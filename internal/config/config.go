package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Форматы тела писем
const (
	BodyFormatText = "text" // Только plain text
	BodyFormatHTML = "html" // HTML из шаблонов + plain text как альтернатива
)

// Config — главная структура конфигурации приложения
// Все поля заполняются из переменных окружения
type Config struct {
	Server ServerConfig // Настройки серверов
	SMTP   SMTPConfig   // Подключение к почтовому серверу
	Mail   MailConfig   // Получатели и оформление писем
	Limits LimitsConfig // Лимиты
	Log    LogConfig    // Логирование
}

// ServerConfig — настройки HTTP-сервера и локального SMTP-приёмника
type ServerConfig struct {
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"` // Порт HTTP сервера
	SMTPPort int    `envconfig:"SMTP_PORT" default:"2525"` // Порт SMTP-приёмника (cmd/smtp)
	TLSCert  string `envconfig:"SMTP_TLS_CERT"`            // PEM-сертификат приёмника, включает STARTTLS
	TLSKey   string `envconfig:"SMTP_TLS_KEY"`             // Ключ к SMTP_TLS_CERT
}

// SMTPConfig — параметры отправки писем через внешний SMTP-сервер
type SMTPConfig struct {
	Host          string        `envconfig:"MAIL_SERVER" default:"localhost"`
	Port          int           `envconfig:"MAIL_PORT" default:"587"`
	UseTLS        bool          `envconfig:"MAIL_USE_TLS" default:"true"`  // STARTTLS после подключения
	UseSSL        bool          `envconfig:"MAIL_USE_SSL" default:"false"` // TLS сразу (порт 465)
	Username      string        `envconfig:"MAIL_USERNAME"`
	Password      string        `envconfig:"MAIL_PASSWORD"`
	DefaultSender string        `envconfig:"MAIL_DEFAULT_SENDER" required:"true"` // Адрес From
	Timeout       time.Duration `envconfig:"MAIL_TIMEOUT" default:"30s"`
	CACert        string        `envconfig:"MAIL_CA_CERT"` // PEM с корневыми сертификатами вместо системных
}

// Addr возвращает адрес в формате host:port
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig — кому и от чьего имени отправляются письма
type MailConfig struct {
	HREmail     string `envconfig:"HR_EMAIL" required:"true"`            // Адрес для внутренних уведомлений
	CompanyName string `envconfig:"COMPANY_NAME" default:"Your Company"` // Подпись в письмах
	BodyFormat  string `envconfig:"MAIL_BODY_FORMAT" default:"text"`     // text или html
}

// LimitsConfig — лимиты и ограничения
type LimitsConfig struct {
	MaxMessageSize int `envconfig:"MAX_MESSAGE_SIZE" default:"10485760"` // Макс. размер запроса и письма (10 MB)
	CaptureKeep    int `envconfig:"CAPTURE_KEEP" default:"100"`          // Сколько писем хранит SMTP-приёмник
}

// LogConfig — настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE"` // Пусто — только консоль
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается прочитать файл .env, затем читает переменные окружения
func Load() (*Config, error) {
	// Если файла нет — не страшно, будем читать из системных переменных
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения, которые envconfig проверить не может
func (c *Config) Validate() error {
	switch c.Mail.BodyFormat {
	case BodyFormatText, BodyFormatHTML:
	default:
		return fmt.Errorf("MAIL_BODY_FORMAT: неизвестный формат %q", c.Mail.BodyFormat)
	}
	if c.SMTP.UseTLS && c.SMTP.UseSSL {
		return fmt.Errorf("MAIL_USE_TLS и MAIL_USE_SSL нельзя включать одновременно")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("SMTP_TLS_CERT и SMTP_TLS_KEY задаются вместе")
	}
	return nil
}
