package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/infrastructure/models"
)

// PaymentSessionRepositoryImpl implements PaymentSessionRepository
type PaymentSessionRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) *PaymentSessionRepositoryImpl {
	return &PaymentSessionRepositoryImpl{db: db}
}

func (r *PaymentSessionRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).WithContext(ctx)
}

func (r *PaymentSessionRepositoryImpl) Create(ctx context.Context, s *entities.PaymentSession) error {
	now := time.Now().UTC()
	m := &models.PaymentSession{
		ID:                s.ID,
		CheckoutSessionID: s.CheckoutSessionID,
		TempID:            s.TempID,
		Product:           string(s.Product),
		Kind:              string(s.Kind),
		Email:             s.Email,
		AmountMinor:       s.AmountMinor,
		Currency:          s.Currency,
		Status:            string(s.Status),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if s.FormData.Valid {
		data := string(s.FormData.JSON)
		m.FormData = &data
	}
	if err := r.conn(ctx).Create(m).Error; err != nil {
		return err
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (r *PaymentSessionRepositoryImpl) getBy(ctx context.Context, query string, arg interface{}) (*entities.PaymentSession, error) {
	var m models.PaymentSession
	if err := r.conn(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *PaymentSessionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentSession, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *PaymentSessionRepositoryImpl) GetByCheckoutSessionID(ctx context.Context, checkoutSessionID string) (*entities.PaymentSession, error) {
	return r.getBy(ctx, "checkout_session_id = ?", checkoutSessionID)
}

func (r *PaymentSessionRepositoryImpl) GetByTempID(ctx context.Context, tempID string) (*entities.PaymentSession, error) {
	return r.getBy(ctx, "temp_id = ?", tempID)
}

func (r *PaymentSessionRepositoryImpl) updates(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	result := r.conn(ctx).Model(&models.PaymentSession{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PaymentSessionRepositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.updates(ctx, id, map[string]interface{}{
		"status":     string(entities.PaymentSessionPaid),
		"paid_at":    now,
		"updated_at": now,
	})
}

func (r *PaymentSessionRepositoryImpl) ClearFormData(ctx context.Context, id uuid.UUID) error {
	return r.updates(ctx, id, map[string]interface{}{
		"form_data":  gorm.Expr("NULL"),
		"updated_at": time.Now().UTC(),
	})
}

func (r *PaymentSessionRepositoryImpl) GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.PaymentSession, error) {
	var ms []models.PaymentSession
	if err := r.conn(ctx).
		Where("status = ? AND created_at < ?", string(entities.PaymentSessionPending), before.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entities.PaymentSession, 0, len(ms))
	for i := range ms {
		sessions = append(sessions, r.toEntity(&ms[i]))
	}
	return sessions, nil
}

func (r *PaymentSessionRepositoryImpl) ExpireSessions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).Model(&models.PaymentSession{}).
		Where("id IN ? AND status = ?", ids, string(entities.PaymentSessionPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.PaymentSessionExpired),
			"form_data":  gorm.Expr("NULL"),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PaymentSessionRepositoryImpl) toEntity(m *models.PaymentSession) *entities.PaymentSession {
	s := &entities.PaymentSession{
		ID:                m.ID,
		CheckoutSessionID: m.CheckoutSessionID,
		TempID:            m.TempID,
		Product:           entities.PaymentProduct(m.Product),
		Kind:              entities.Kind(m.Kind),
		Email:             m.Email,
		AmountMinor:       m.AmountMinor,
		Currency:          m.Currency,
		Status:            entities.PaymentSessionStatus(m.Status),
		PaidAt:            null.TimeFromPtr(m.PaidAt),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.FormData != nil {
		s.FormData = null.JSONFrom([]byte(*m.FormData))
	}
	return s
}
