package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/domain/repositories"
	"citizen-portal.backend/internal/domain/schemas"
	"citizen-portal.backend/pkg/metrics"
	"citizen-portal.backend/pkg/utils"
)

// SubmitInput is a parsed submission: the flat field map plus the files map keyed by slot.
type SubmitInput struct {
	Fields map[string]any
	Files  map[string]any
}

// SubmitResult identifies a persisted application
type SubmitResult struct {
	ApplicationID   string        `json:"applicationId"`
	ApplicationDate time.Time     `json:"applicationDate"`
	Kind            entities.Kind `json:"kind"`
}

// ApplicationUsecase runs submission, listing and staff review for every schema family
type ApplicationUsecase struct {
	registry *schemas.Registry
	repo     repositories.ApplicationRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	registry *schemas.Registry,
	repo repositories.ApplicationRepository,
	m *metrics.Metrics,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		registry: registry,
		repo:     repo,
		metrics:  m,
		now:      time.Now,
	}
}

func (u *ApplicationUsecase) family(slug string) (*schemas.Family, error) {
	f, ok := u.registry.Family(slug)
	if !ok {
		return nil, domainerrors.NotFound("Unknown application type")
	}
	return f, nil
}

// Submit validates a submission against its schema and persists it as pending.
func (u *ApplicationUsecase) Submit(ctx context.Context, slug string, in SubmitInput) (*SubmitResult, error) {
	family, err := u.family(slug)
	if err != nil {
		return nil, err
	}
	schema, err := family.Select(in.Fields)
	if err != nil {
		return nil, domainerrors.ValidationFailed([]string{err.Error()})
	}
	kind := string(schema.Kind)

	now := u.now().UTC()
	docs, errs := schema.Validate(in.Fields, in.Files, now)
	if len(errs) > 0 {
		u.metrics.IncSubmission(kind, metrics.OutcomeInvalid)
		return nil, domainerrors.ValidationFailed(errs)
	}

	email, phone, identifier := schema.Contact(in.Fields)

	// Best-effort pre-check; the partial unique index is the real guard.
	existing, err := u.repo.FindActiveByEmail(ctx, schema.Kind, email)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		u.metrics.IncSubmission(kind, metrics.OutcomeError)
		return nil, domainerrors.InternalError(err)
	}
	if existing != nil {
		u.metrics.IncSubmission(kind, metrics.OutcomeConflict)
		return nil, domainerrors.Conflict(schema.DuplicateMessage)
	}

	app := &entities.Application{
		ID:              utils.GenerateUUIDv7(),
		Kind:            schema.Kind,
		Email:           email,
		Phone:           phone,
		Identifier:      identifier,
		Fields:          schema.Declared(in.Fields),
		Documents:       docs,
		Status:          entities.StatusPending,
		ApplicationDate: now,
		UpdatedAt:       now,
	}
	if err := u.repo.Create(ctx, app); err != nil {
		appErr := persistError(schema, err)
		u.metrics.IncSubmission(kind, outcomeOf(appErr))
		return nil, appErr
	}

	u.metrics.IncSubmission(kind, metrics.OutcomeSuccess)
	return &SubmitResult{
		ApplicationID:   app.ID.String(),
		ApplicationDate: app.ApplicationDate,
		Kind:            app.Kind,
	}, nil
}

// persistError translates storage failures once, at the workflow boundary.
func persistError(schema *schemas.Schema, err error) *domainerrors.AppError {
	var recErr *entities.RecordValidationError
	if errors.As(err, &recErr) {
		return domainerrors.ValidationFailed(recErr.Messages)
	}
	var dup *repositories.DuplicateKeyError
	if errors.As(err, &dup) {
		if dup.Field == "" {
			return domainerrors.Conflict("An application with these details already exists")
		}
		return domainerrors.Conflict(fmt.Sprintf("An application with this %s already exists", schema.ColumnField(dup.Field)))
	}
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound("Application not found")
	}
	return domainerrors.InternalError(err)
}

func outcomeOf(err *domainerrors.AppError) string {
	switch err.Code {
	case domainerrors.CodeValidationFailed:
		return metrics.OutcomeInvalid
	case domainerrors.CodeConflict:
		return metrics.OutcomeConflict
	case domainerrors.CodeNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// List returns every application of the family, newest first.
func (u *ApplicationUsecase) List(ctx context.Context, slug string) ([]entities.ApplicationView, error) {
	family, err := u.family(slug)
	if err != nil {
		return nil, err
	}

	views := make([]entities.ApplicationView, 0)
	for _, schema := range family.Schemas {
		apps, err := u.repo.FindAll(ctx, schema.Kind)
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		for _, app := range apps {
			views = append(views, schema.View(app))
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].ApplicationDate.After(views[j].ApplicationDate)
	})
	return views, nil
}

// locate finds an application across the family's variant tables.
func (u *ApplicationUsecase) locate(ctx context.Context, family *schemas.Family, rawID string) (*schemas.Schema, *entities.Application, error) {
	id, ok := utils.ParseID(strings.TrimSpace(rawID))
	if !ok {
		return nil, nil, domainerrors.NotFound("Application not found")
	}
	for _, schema := range family.Schemas {
		app, err := u.repo.FindByID(ctx, schema.Kind, id)
		if err == nil {
			return schema, app, nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.InternalError(err)
		}
	}
	return nil, nil, domainerrors.NotFound("Application not found")
}

// Get returns a single application
func (u *ApplicationUsecase) Get(ctx context.Context, slug, id string) (*entities.ApplicationView, error) {
	family, err := u.family(slug)
	if err != nil {
		return nil, err
	}
	schema, app, err := u.locate(ctx, family, id)
	if err != nil {
		return nil, err
	}
	view := schema.View(app)
	return &view, nil
}

// UpdateStatus moves an application to any status of its schema's vocabulary. There is no
// transition guard.
func (u *ApplicationUsecase) UpdateStatus(ctx context.Context, slug, id, status string) (*entities.ApplicationView, error) {
	family, err := u.family(slug)
	if err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, domainerrors.ValidationFailed([]string{"status is required"})
	}
	if strings.TrimSpace(id) == "" {
		return nil, domainerrors.ValidationFailed([]string{"applicationId is required"})
	}

	schema, app, err := u.locate(ctx, family, id)
	if err != nil {
		return nil, err
	}
	next := entities.ApplicationStatus(status)
	if !schema.AllowsStatus(next) {
		return nil, domainerrors.ValidationFailed([]string{"status must be one of: " + schema.StatusList()})
	}

	updated, err := u.repo.UpdateStatus(ctx, schema.Kind, app.ID, next)
	if err != nil {
		var dup *repositories.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, domainerrors.Conflict("Another active application already uses these details")
		}
		return nil, persistError(schema, err)
	}

	u.metrics.IncStatusUpdate(string(schema.Kind), string(next))
	view := schema.View(updated)
	return &view, nil
}

// Document returns one stored file of an application.
func (u *ApplicationUsecase) Document(ctx context.Context, slug, id, slot string) (*entities.File, error) {
	family, err := u.family(slug)
	if err != nil {
		return nil, err
	}
	_, app, err := u.locate(ctx, family, id)
	if err != nil {
		return nil, err
	}
	file, ok := app.Documents[slot]
	if !ok || file.Data == "" {
		return nil, domainerrors.NotFound("Document not found")
	}
	return &file, nil
}
