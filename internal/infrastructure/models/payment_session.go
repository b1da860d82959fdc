package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentSession struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	CheckoutSessionID string    `gorm:"type:varchar(255);not null"`
	TempID            string    `gorm:"type:varchar(64);not null"`
	Product           string    `gorm:"type:varchar(20);not null"`
	Kind              string    `gorm:"type:varchar(50);not null"`
	Email             string    `gorm:"type:varchar(255);not null"`
	AmountMinor       int64     `gorm:"not null"`
	Currency          string    `gorm:"type:varchar(8);not null"`
	Status            string    `gorm:"type:varchar(20);not null"`
	FormData          *string   `gorm:"type:text"`
	PaidAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}
