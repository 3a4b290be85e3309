package repositories

import (
	"estate_backend/internal/models"

	"gorm.io/gorm"
)

type PaymentIntentRepository interface {
	Create(db *gorm.DB, intent *models.PaymentIntent) error
	FindByProviderID(db *gorm.DB, providerID string) (*models.PaymentIntent, error)
}

type paymentIntentRepository struct{}

func NewPaymentIntentRepository() PaymentIntentRepository {
	return &paymentIntentRepository{}
}

func (r *paymentIntentRepository) Create(db *gorm.DB, intent *models.PaymentIntent) error {
	return db.Create(intent).Error
}

func (r *paymentIntentRepository) FindByProviderID(db *gorm.DB, providerID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if err := db.Where("provider_id = ?", providerID).First(&intent).Error; err != nil {
		return nil, err
	}
	return &intent, nil
}
