package services

import (
	"errors"
	"fmt"
	"strings"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/internal/services/payment"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentService interface {
	// CreateIntent создает платежное намерение у провайдера и возвращает client secret
	CreateIntent(db *gorm.DB, req *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error)
}

type PaymentServiceImpl struct {
	provider payment.Provider
	repo     repositories.PaymentIntentRepository
	now      Clock
}

func NewPaymentService(provider payment.Provider, repo repositories.PaymentIntentRepository, clock Clock) PaymentService {
	if clock == nil {
		clock = systemClock
	}
	return &PaymentServiceImpl{
		provider: provider,
		repo:     repo,
		now:      clock,
	}
}

func (s *PaymentServiceImpl) CreateIntent(db *gorm.DB, req *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	ctx := ctxOf(db)

	if req.Amount == nil {
		return nil, appErrors.NewBadRequestError("amount is required")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))

	amountMinor, err := payment.ToMinorUnits(*req.Amount, currency)
	if err != nil {
		return nil, appErrors.NewBadRequestError(err.Error())
	}

	var userID string
	if req.UserID != nil {
		userID = strings.TrimSpace(*req.UserID)
	}

	key, err := s.idempotencyKey(userID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	metadata := map[string]string{
		"plan":         req.Plan,
		"billingCycle": string(req.BillingCycle),
	}
	if userID != "" {
		metadata["userId"] = userID
	}

	intent, err := s.provider.CreateIntent(ctx, payment.IntentRequest{
		AmountMinor:    amountMinor,
		Currency:       currency,
		Metadata:       metadata,
		IdempotencyKey: key,
	})
	if err != nil {
		// клиент получает общее сообщение, детали провайдера остаются в логе
		logger.CtxWithError(ctx, "payment provider failed", err,
			"provider", s.provider.Name(),
			"amount_minor", amountMinor,
			"currency", currency,
			"idempotency_key", key,
		)
		return nil, appErrors.ErrPaymentIntentFailed.WithError(err)
	}
	if intent.ClientSecret == "" {
		return nil, appErrors.ErrPaymentIntentFailed.WithError(errors.New("provider returned empty client secret"))
	}

	s.record(db, intent, key, amountMinor, currency, req, userID, metadata)

	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// idempotencyKey - {userId|"payment"}-{unixMillis}-{8 символов}.
// Ключ новый на каждый вызов: повтор запроса клиентом создаст второе намерение.
func (s *PaymentServiceImpl) idempotencyKey(userID string) (string, error) {
	prefix := userID
	if prefix == "" {
		prefix = "payment"
	}
	suffix, err := auth.RandomSuffix(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", prefix, s.now().UnixMilli(), suffix), nil
}

// record пишет журнал; сбой записи не должен отменять созданное у провайдера намерение
func (s *PaymentServiceImpl) record(db *gorm.DB, intent *payment.Intent, key string, amountMinor int64, currency string, req *dto.CreatePaymentIntentRequest, userID string, metadata map[string]string) {
	meta := datatypes.JSONMap{}
	for k, v := range metadata {
		meta[k] = v
	}

	row := &models.PaymentIntent{
		Provider:       s.provider.Name(),
		ProviderID:     intent.ID,
		IdempotencyKey: key,
		AmountMinor:    amountMinor,
		Currency:       currency,
		Plan:           req.Plan,
		BillingCycle:   req.BillingCycle,
		Status:         models.PaymentStatusCreated,
		Metadata:       meta,
	}
	if userID != "" {
		row.UserID = &userID
	}

	if err := s.repo.Create(db, row); err != nil {
		logger.CtxWithError(ctxOf(db), "failed to record payment intent", err, "provider_id", intent.ID)
	}
}
