package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	domainrepos "citizen-portal.backend/internal/domain/repositories"
	"citizen-portal.backend/internal/infrastructure/models"
)

// ApplicationRepositoryImpl implements ApplicationRepository over one table per kind
type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepositoryImpl {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) table(ctx context.Context, kind entities.Kind) *gorm.DB {
	return GetDB(ctx, r.db).WithContext(ctx).Table(kind.TableName())
}

func activeStatuses() []string {
	out := make([]string, 0, len(entities.ActiveStatuses))
	for _, s := range entities.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *entities.Application) error {
	if err := app.Validate(); err != nil {
		return err
	}
	m, err := toApplicationModel(app)
	if err != nil {
		return err
	}
	if err := r.table(ctx, app.Kind).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domainrepos.DuplicateKeyError{Field: r.collidingColumn(ctx, app)}
		}
		return err
	}
	return nil
}

// collidingColumn finds which active-status unique column rejected the insert.
func (r *ApplicationRepositoryImpl) collidingColumn(ctx context.Context, app *entities.Application) string {
	candidates := []struct {
		column string
		value  string
	}{
		{"email", app.Email},
		{"phone", app.Phone},
		{"identifier", app.Identifier.String},
	}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		var count int64
		err := r.table(ctx, app.Kind).
			Where(c.column+" = ? AND status IN ?", c.value, activeStatuses()).
			Count(&count).Error
		if err == nil && count > 0 {
			return c.column
		}
	}
	return ""
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, kind entities.Kind) ([]*entities.Application, error) {
	var ms []models.Application
	if err := r.table(ctx, kind).Order("application_date DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	apps := make([]*entities.Application, 0, len(ms))
	for i := range ms {
		app, err := toApplicationEntity(kind, &ms[i])
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (r *ApplicationRepositoryImpl) first(kind entities.Kind, q *gorm.DB) (*entities.Application, error) {
	var m models.Application
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toApplicationEntity(kind, &m)
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error) {
	return r.first(kind, r.table(ctx, kind).Where("id = ?", id))
}

func (r *ApplicationRepositoryImpl) FindActiveByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error) {
	return r.first(kind, r.table(ctx, kind).
		Where("email = ? AND status IN ?", email, activeStatuses()).
		Order("application_date DESC"))
}

func (r *ApplicationRepositoryImpl) FindLatestByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error) {
	return r.first(kind, r.table(ctx, kind).
		Where("email = ?", email).
		Order("application_date DESC"))
}

func (r *ApplicationRepositoryImpl) update(ctx context.Context, kind entities.Kind, id uuid.UUID, values map[string]interface{}) (*entities.Application, error) {
	result := r.table(ctx, kind).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.FindByID(ctx, kind, id)
}

func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, kind entities.Kind, id uuid.UUID, status entities.ApplicationStatus) (*entities.Application, error) {
	app, err := r.update(ctx, kind, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// reactivating a record can collide with a newer active submission
		return nil, &domainrepos.DuplicateKeyError{}
	}
	return app, err
}

func (r *ApplicationRepositoryImpl) MarkPaymentVerified(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error) {
	now := time.Now().UTC()
	return r.update(ctx, kind, id, map[string]interface{}{
		"payment_verified":    true,
		"payment_verified_at": now,
		"updated_at":          now,
	})
}

func toApplicationModel(app *entities.Application) (*models.Application, error) {
	fields, err := json.Marshal(app.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	docs, err := json.Marshal(app.Documents)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}
	m := &models.Application{
		ID:              app.ID,
		Email:           app.Email,
		Phone:           app.Phone,
		Status:          string(app.Status),
		PaymentVerified: app.PaymentVerified,
		Fields:          string(fields),
		Documents:       string(docs),
		ApplicationDate: app.ApplicationDate.UTC(),
		UpdatedAt:       app.UpdatedAt.UTC(),
	}
	if app.Identifier.Valid {
		m.Identifier = &app.Identifier.String
	}
	if app.PaymentVerifiedAt.Valid {
		t := app.PaymentVerifiedAt.Time.UTC()
		m.PaymentVerifiedAt = &t
	}
	return m, nil
}

func toApplicationEntity(kind entities.Kind, m *models.Application) (*entities.Application, error) {
	app := &entities.Application{
		ID:                m.ID,
		Kind:              kind,
		Email:             m.Email,
		Phone:             m.Phone,
		Identifier:        null.StringFromPtr(m.Identifier),
		Status:            entities.ApplicationStatus(m.Status),
		PaymentVerified:   m.PaymentVerified,
		PaymentVerifiedAt: null.TimeFromPtr(m.PaymentVerifiedAt),
		ApplicationDate:   m.ApplicationDate,
		UpdatedAt:         m.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(m.Fields), &app.Fields); err != nil {
		return nil, fmt.Errorf("decode fields of %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(m.Documents), &app.Documents); err != nil {
		return nil, fmt.Errorf("decode documents of %s: %w", m.ID, err)
	}
	return app, nil
}
