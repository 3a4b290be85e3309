package models

import "gorm.io/datatypes"

// PaymentIntent - журнал созданных у провайдера платежных намерений
type PaymentIntent struct {
	BaseModel
	UserID         *string           `gorm:"type:varchar(64);index"`
	Provider       string            `gorm:"type:varchar(32);not null"`
	ProviderID     string            `gorm:"type:varchar(255);index"`
	IdempotencyKey string            `gorm:"type:varchar(128);uniqueIndex;not null"`
	AmountMinor    int64             `gorm:"not null"`
	Currency       string            `gorm:"type:varchar(3);not null"`
	Plan           string            `gorm:"type:varchar(64)"`
	BillingCycle   BillingCycle      `gorm:"type:varchar(16)"`
	Status         PaymentStatus     `gorm:"type:varchar(16);not null"`
	Metadata       datatypes.JSONMap `gorm:"type:json"`
}
