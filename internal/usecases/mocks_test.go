package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"citizen-portal.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock ApplicationRepository
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *entities.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindAll(ctx context.Context, kind entities.Kind) ([]*entities.Application, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindActiveByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error) {
	args := m.Called(ctx, kind, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindLatestByEmail(ctx context.Context, kind entities.Kind, email string) (*entities.Application, error) {
	args := m.Called(ctx, kind, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, kind entities.Kind, id uuid.UUID, status entities.ApplicationStatus) (*entities.Application, error) {
	args := m.Called(ctx, kind, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) MarkPaymentVerified(ctx context.Context, kind entities.Kind, id uuid.UUID) (*entities.Application, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

// Mock PaymentSessionRepository
type MockPaymentSessionRepository struct {
	mock.Mock
}

func (m *MockPaymentSessionRepository) Create(ctx context.Context, session *entities.PaymentSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockPaymentSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentSession), args.Error(1)
}

func (m *MockPaymentSessionRepository) GetByCheckoutSessionID(ctx context.Context, checkoutSessionID string) (*entities.PaymentSession, error) {
	args := m.Called(ctx, checkoutSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentSession), args.Error(1)
}

func (m *MockPaymentSessionRepository) GetByTempID(ctx context.Context, tempID string) (*entities.PaymentSession, error) {
	args := m.Called(ctx, tempID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentSession), args.Error(1)
}

func (m *MockPaymentSessionRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentSessionRepository) ClearFormData(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentSessionRepository) GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.PaymentSession, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentSession), args.Error(1)
}

func (m *MockPaymentSessionRepository) ExpireSessions(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// Mock TempDataStore
type MockTempDataStore struct {
	mock.Mock
}

func (m *MockTempDataStore) Put(ctx context.Context, id string, payload []byte) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}

func (m *MockTempDataStore) Take(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Mock PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (*entities.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) IsPaid(ctx context.Context, checkoutSessionID string) (bool, error) {
	args := m.Called(ctx, checkoutSessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentGateway) ParseWebhook(payload []byte, signature string) (*entities.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentEvent), args.Error(1)
}

// Mock TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}
