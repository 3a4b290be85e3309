package email

import (
	"fmt"
	"sync"

	"estate_backend/internal/logger"
)

// SentEmail - письмо, перехваченное LogProvider
type SentEmail struct {
	Email
	Template string
	Data     TemplateData
}

// LogProvider пишет письма в лог вместо отправки (разработка, тесты)
type LogProvider struct {
	renderer TemplateRenderer

	mu   sync.Mutex
	sent []SentEmail
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(email *Email) error {
	p.record(SentEmail{Email: *email})
	return nil
}

func (p *LogProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	if p.renderer != nil {
		body, err := p.renderer.Render(templateName, data)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		email.HTMLBody = body
	}
	p.record(SentEmail{Email: *email, Template: templateName, Data: data})
	return nil
}

func (p *LogProvider) record(msg SentEmail) {
	p.mu.Lock()
	p.sent = append(p.sent, msg)
	p.mu.Unlock()

	logger.Info("email captured", "to", msg.To, "subject", msg.Subject, "template", msg.Template)
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) Close() error { return nil }

// Sent возвращает копию перехваченных писем
func (p *LogProvider) Sent() []SentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SentEmail, len(p.sent))
	copy(out, p.sent)
	return out
}
