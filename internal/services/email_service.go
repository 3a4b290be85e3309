package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"estate_backend/internal/email"
	"estate_backend/internal/logger"
)

// EmailLinks - куда ведут ссылки из писем (страницы фронтенда)
type EmailLinks struct {
	BaseURL       string
	VerifyEmail   string
	ResetPassword string
}

// EmailService собирает письма со ссылками и отправляет через email.Provider
type EmailService struct {
	provider email.Provider
	links    EmailLinks
	async    bool
}

// NewEmailService создает новый экземпляр EmailService.
// async: письма уходят в фоне, ошибка отправки только логируется.
func NewEmailService(provider email.Provider, links EmailLinks, async bool) *EmailService {
	return &EmailService{
		provider: provider,
		links:    links,
		async:    async,
	}
}

// SendPasswordResetEmail отправляет письмо для сброса пароля
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string, ttl time.Duration) error {
	data := email.TemplateData{
		"Link": s.link(s.links.ResetPassword, token),
		"TTL":  humanizeTTL(ttl),
	}
	return s.send(ctx, to, "Сброс пароля", email.TemplatePasswordReset, data)
}

// SendVerificationEmail отправляет письмо для подтверждения email
func (s *EmailService) SendVerificationEmail(ctx context.Context, to, name, token string, ttl time.Duration) error {
	data := email.TemplateData{
		"Link": s.link(s.links.VerifyEmail, token),
		"Name": name,
		"TTL":  humanizeTTL(ttl),
	}
	return s.send(ctx, to, "Подтверждение email", email.TemplateVerification, data)
}

// Validate проверяет конфигурацию провайдера
func (s *EmailService) Validate() error {
	return s.provider.Validate()
}

func (s *EmailService) send(ctx context.Context, to, subject, templateName string, data email.TemplateData) error {
	msg := &email.Email{
		To:      []string{to},
		Subject: subject,
	}

	if !s.async {
		return s.provider.SendWithTemplate(templateName, data, msg)
	}

	// запрос не ждет SMTP; request_id сохраняем для логов
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.provider.SendWithTemplate(templateName, data, msg); err != nil {
			logger.CtxWithError(bg, "failed to send email", err, "template", templateName)
		}
	}()
	return nil
}

func (s *EmailService) link(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", strings.TrimRight(s.links.BaseURL, "/"), path, url.QueryEscape(token))
}

func humanizeTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d ч.", int(d/time.Hour))
	}
	return fmt.Sprintf("%d мин.", int(d/time.Minute))
}
