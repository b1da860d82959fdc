package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"citizen-portal.backend/internal/domain/entities"
)

// DuplicateKeyError is returned when a unique index rejects a write. Field names the
// colliding column when it can be derived.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

// ApplicationRepository persists applications. Every call is routed to the table of the
// given kind.
type ApplicationRepository interface {
	Create(ctx context.Context, app *entities.Application) error
	FindAll(ctx context.Context, kind entities.Kind) ([]*entities.Application, error)
	FindByID(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error)
	FindActiveByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error)
	FindLatestByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error)
	UpdateStatus(ctx context.Context, kind entities.Kind, id uuid.UUID, status entities.ApplicationStatus) (*entities.Application, error)
	MarkPaymentVerified(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error)
}
