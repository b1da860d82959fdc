package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citizen-portal.backend/internal/domain/entities"
)

// PaymentSessionRepository interface
type PaymentSessionRepository interface {
	Create(ctx context.Context, session *entities.PaymentSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentSession, error)
	GetByCheckoutSessionID(ctx context.Context, checkoutSessionID string) (*entities.PaymentSession, error)
	GetByTempID(ctx context.Context, tempID string) (*entities.PaymentSession, error)
	MarkPaid(ctx context.Context, id uuid.UUID) error
	ClearFormData(ctx context.Context, id uuid.UUID) error
	GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.PaymentSession, error)
	ExpireSessions(ctx context.Context, ids []uuid.UUID) error
}
