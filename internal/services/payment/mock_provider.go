package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProvider - провайдер для локальной разработки и тестов
type MockProvider struct {
	// Err, если задан, возвращается из CreateIntent
	Err error

	mu       sync.Mutex
	requests []IntentRequest
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	id := "pi_mock_" + uuid.NewString()[:8]
	return &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()[:12]),
		Status:       "requires_payment_method",
	}, nil
}

// Requests возвращает копию полученных запросов
func (p *MockProvider) Requests() []IntentRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]IntentRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
