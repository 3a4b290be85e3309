package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(email *Email) error

	// SendWithTemplate рендерит шаблон в HTMLBody и отправляет
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
