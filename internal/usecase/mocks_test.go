package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arsdatascience/customer-engine/internal/entity"
	"github.com/arsdatascience/customer-engine/internal/infra/queue"
)

// MockCustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.UnifiedCustomer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.UnifiedCustomer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UnifiedCustomer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, tenantID int64, email string) (*entity.UnifiedCustomer, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UnifiedCustomer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, tenantID int64, phone string) (*entity.UnifiedCustomer, error) {
	args := m.Called(ctx, tenantID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UnifiedCustomer), args.Error(1)
}

func (m *MockCustomerRepository) FindByMessagingHandle(ctx context.Context, tenantID int64, handle string) (*entity.UnifiedCustomer, error) {
	args := m.Called(ctx, tenantID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UnifiedCustomer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateStage(ctx context.Context, customerID string, stage entity.Stage) error {
	args := m.Called(ctx, customerID, stage)
	return args.Error(0)
}

// MockIdentityRepository
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) Upsert(ctx context.Context, link *entity.IdentityLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockIdentityRepository) FindCustomerID(ctx context.Context, identifierType entity.IdentifierType, value string) (string, error) {
	args := m.Called(ctx, identifierType, value)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityRepository) RecordAudit(ctx context.Context, audit *entity.IdentityAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

// MockInteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) AppendWithRollup(ctx context.Context, it *entity.Interaction) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

// MockJourneyRepository
type MockJourneyRepository struct {
	mock.Mock
}

func (m *MockJourneyRepository) Create(ctx context.Context, j *entity.Journey) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJourneyRepository) FindByID(ctx context.Context, id string) (*entity.Journey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Journey), args.Error(1)
}

func (m *MockJourneyRepository) Update(ctx context.Context, j *entity.Journey) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJourneyRepository) CompleteActiveByCustomer(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockConversionRepository
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) SaveWithCustomerUpdate(ctx context.Context, ev *entity.ConversionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockStatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) StageDistribution(ctx context.Context, tenantID int64) ([]entity.StageStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StageStats), args.Error(1)
}

func (m *MockStatsRepository) ChannelMix(ctx context.Context, tenantID int64, since time.Time) ([]entity.ChannelStats, error) {
	args := m.Called(ctx, tenantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChannelStats), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishConversion(ctx context.Context, payload queue.ConversionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
