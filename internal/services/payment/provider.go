package payment

import "context"

// IntentRequest - параметры платежного намерения в минорных единицах
type IntentRequest struct {
	AmountMinor    int64
	Currency       string // ISO 4217, нижний регистр
	Metadata       map[string]string
	IdempotencyKey string
}

// Intent - созданное у провайдера намерение
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Provider - внешний платежный провайдер
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
