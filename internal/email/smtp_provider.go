package email

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	// 465 - неявный TLS, остальные порты поднимают STARTTLS сами
	d.SSL = config.UseTLS && config.Port == 465
	d.TLSConfig = &tls.Config{ServerName: config.Host}

	return &SMTPProvider{
		config:   config,
		dialer:   d,
		renderer: renderer,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	return p.dialer.DialAndSend(p.buildMessage(email))
}

// SendWithTemplate отправляет email используя шаблон
func (p *SMTPProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	email.HTMLBody = htmlBody
	return p.Send(email)
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

// Close закрывает соединение (gomail открывает его на каждую отправку)
func (p *SMTPProvider) Close() error {
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}
	return m
}
