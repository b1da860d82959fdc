package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is the row shape shared by every <kind>_applications table. The table is
// chosen per query with db.Table.
type Application struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"type:varchar(255);not null"`
	Phone             string    `gorm:"type:varchar(20)"`
	Identifier        *string   `gorm:"type:varchar(64)"`
	Status            string    `gorm:"type:varchar(20);not null"`
	PaymentVerified   bool      `gorm:"not null;default:false"`
	PaymentVerifiedAt *time.Time
	Fields            string    `gorm:"type:text;not null"`
	Documents         string    `gorm:"type:text;not null"`
	ApplicationDate   time.Time `gorm:"not null"`
	UpdatedAt         time.Time
}
