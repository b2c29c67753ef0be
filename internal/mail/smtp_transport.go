package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"formrelay/internal/config"
)

// SMTPTransport отправляет письма через внешний SMTP-сервер
// На каждое письмо открывается отдельное соединение
type SMTPTransport struct {
	config    config.SMTPConfig
	tlsConfig *tls.Config
	from      string // Заголовок From
	sender    string // Адрес для MAIL FROM
}

// NewSMTPTransport создаёт транспорт
// Адрес отправителя проверяется сразу, чтобы ошибка была видна при старте
func NewSMTPTransport(cfg config.SMTPConfig) (*SMTPTransport, error) {
	sender, err := EnvelopeAddress(cfg.DefaultSender)
	if err != nil {
		return nil, fmt.Errorf("MAIL_DEFAULT_SENDER: %w", err)
	}

	tlsConfig, err := newTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &SMTPTransport{
		config:    cfg,
		tlsConfig: tlsConfig,
		from:      cfg.DefaultSender,
		sender:    sender,
	}, nil
}

// newTLSConfig проверяет сертификат сервера по имени MAIL_SERVER
// MAIL_CA_CERT заменяет системные корневые сертификаты (свой CA у почтового релея)
func newTLSConfig(cfg config.SMTPConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{ServerName: cfg.Host}
	if cfg.CACert == "" {
		return tlsConfig, nil
	}

	pem, err := os.ReadFile(cfg.CACert)
	if err != nil {
		return nil, fmt.Errorf("MAIL_CA_CERT: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("MAIL_CA_CERT: в %s нет PEM-сертификатов", cfg.CACert)
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// Send кодирует и отправляет одно письмо
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	// Собираем письмо до подключения: ошибка адреса не должна стоить соединения
	var buf bytes.Buffer
	if err := msg.Encode(&buf, t.from); err != nil {
		return err
	}

	rcpts := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := EnvelopeAddress(to)
		if err != nil {
			return err
		}
		rcpts = append(rcpts, addr)
	}

	client, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if t.config.Username != "" {
		auth := sasl.NewPlainClient("", t.config.Username, t.config.Password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.SendMail(t.sender, rcpts, &buf); err != nil {
		return err
	}

	// Письмо уже принято сервером, ошибка QUIT ничего не меняет
	_ = client.Quit()
	return nil
}

// dial подключается к серверу с учётом MAIL_USE_SSL / MAIL_USE_TLS
func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	addr := t.config.Addr()

	var (
		conn net.Conn
		err  error
	)
	if t.config.UseSSL {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}

	// Общий дедлайн на весь SMTP-диалог
	if t.config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(t.config.Timeout))
	}

	if t.config.UseSSL {
		return smtp.NewClient(conn), nil
	}

	if t.config.UseTLS {
		client, err := smtp.NewClientStartTLS(conn, t.tlsConfig)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("smtp starttls: %w", err)
		}
		return client, nil
	}

	return smtp.NewClient(conn), nil
}
