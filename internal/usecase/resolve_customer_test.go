package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

func newResolveUC(customers *MockCustomerRepository, identities *MockIdentityRepository) *ResolveCustomerUseCase {
	return NewResolveCustomerUseCase(customers, identities, zap.NewNop())
}

func TestResolveWithoutIdentifiersFails(t *testing.T) {
	uc := newResolveUC(new(MockCustomerRepository), new(MockIdentityRepository))

	customer, err := uc.Execute(context.Background(), ResolveCustomerInput{TenantID: 1, Source: "email"})

	assert.Nil(t, customer)
	assert.True(t, IsValidationError(err))
}

func TestResolveMatchesByEmail(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	existing := &entity.UnifiedCustomer{
		ID:           "cust-1",
		TenantID:     1,
		Email:        "a@x.com",
		CurrentStage: entity.StageDecision,
	}

	mockCustomers.On("FindByEmail", ctx, int64(1), "a@x.com").Return(existing, nil)
	mockIdentities.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Email:    "a@x.com",
		TenantID: 1,
		Source:   "email",
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)
	mockCustomers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveMatchesByPhoneThroughIdentityGraph(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	existing := &entity.UnifiedCustomer{ID: "cust-2", TenantID: 1, Phone: "+5511999990000"}

	mockIdentities.On("FindCustomerID", ctx, entity.IdentifierPhone, "+5511999990000").Return("cust-2", nil)
	mockCustomers.On("FindByID", ctx, "cust-2").Return(existing, nil)
	mockIdentities.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Phone:    "+5511999990000",
		TenantID: 1,
		Source:   "whatsapp",
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-2", customer.ID)
	mockCustomers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveCreatesCustomerAndRegistersIdentifiers(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	mockCustomers.On("FindByEmail", ctx, int64(1), "novo@x.com").Return(nil, entity.ErrNotFound)
	mockIdentities.On("FindCustomerID", ctx, entity.IdentifierPhone, "+5511988887777").Return("", entity.ErrNotFound)
	mockCustomers.On("FindByPhone", ctx, int64(1), "+5511988887777").Return(nil, entity.ErrNotFound)
	mockCustomers.On("Create", ctx, mock.Anything).Return(nil)

	var links []*entity.IdentityLink
	mockIdentities.On("Upsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		links = append(links, args.Get(1).(*entity.IdentityLink))
	}).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Email:    "novo@x.com",
		Phone:    "+5511988887777",
		TenantID: 1,
		Name:     "Maria",
		Source:   "instagram",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StageAwareness, customer.CurrentStage)
	assert.Equal(t, 1, customer.TotalTouchpoints)
	assert.Equal(t, "instagram", customer.LastChannel)

	// Email com confiança 1.0, phone com 0.95.
	assert.Len(t, links, 2)
	byType := map[entity.IdentifierType]float64{}
	for _, l := range links {
		byType[l.IdentifierType] = l.Confidence
	}
	assert.Equal(t, 1.0, byType[entity.IdentifierEmail])
	assert.Equal(t, 0.95, byType[entity.IdentifierPhone])
}

// TestResolveRetriesLookupAfterLostInsertRace - o insert perde a corrida
// da chave única e a segunda rodada de lookup encontra o vencedor.
func TestResolveRetriesLookupAfterLostInsertRace(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	winner := &entity.UnifiedCustomer{ID: "cust-winner", TenantID: 1, Email: "a@x.com"}

	mockCustomers.On("FindByEmail", ctx, int64(1), "a@x.com").Return(nil, entity.ErrNotFound).Once()
	mockCustomers.On("Create", ctx, mock.Anything).Return(entity.ErrIdentifierTaken).Once()
	mockCustomers.On("FindByEmail", ctx, int64(1), "a@x.com").Return(winner, nil).Once()
	mockIdentities.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Email:    "a@x.com",
		TenantID: 1,
		Source:   "email",
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-winner", customer.ID)
	mockCustomers.AssertExpectations(t)
}

// TestResolveRetryFindsWinnerByPhoneBeforeIdentityLinks - corrida por phone:
// o vencedor insere o cliente mas ainda não gravou os links do grafo. O
// retry do perdedor tem que achar o vencedor direto na tabela de clientes.
func TestResolveRetryFindsWinnerByPhoneBeforeIdentityLinks(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	winner := &entity.UnifiedCustomer{ID: "cust-winner", TenantID: 1, Phone: "+5511999990000"}

	mockIdentities.On("FindCustomerID", ctx, entity.IdentifierPhone, "+5511999990000").Return("", entity.ErrNotFound).Twice()
	mockCustomers.On("FindByPhone", ctx, int64(1), "+5511999990000").Return(nil, entity.ErrNotFound).Once()
	mockCustomers.On("Create", ctx, mock.Anything).Return(entity.ErrIdentifierTaken).Once()
	mockCustomers.On("FindByPhone", ctx, int64(1), "+5511999990000").Return(winner, nil).Once()
	mockIdentities.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Phone:    "+5511999990000",
		TenantID: 1,
		Source:   "whatsapp",
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-winner", customer.ID)
	mockCustomers.AssertExpectations(t)
	mockIdentities.AssertExpectations(t)
}

// TestResolveIdentityConflictIsAuditedNotFatal - phone já pertence a outro
// cliente: a resolução segue, mas o conflito vira auditoria.
func TestResolveIdentityConflictIsAuditedNotFatal(t *testing.T) {
	ctx := context.Background()
	mockCustomers := new(MockCustomerRepository)
	mockIdentities := new(MockIdentityRepository)

	existing := &entity.UnifiedCustomer{ID: "cust-1", TenantID: 1, Email: "a@x.com"}

	mockCustomers.On("FindByEmail", ctx, int64(1), "a@x.com").Return(existing, nil)
	mockIdentities.On("Upsert", ctx, mock.MatchedBy(func(l *entity.IdentityLink) bool {
		return l.IdentifierType == entity.IdentifierEmail
	})).Return(nil)
	mockIdentities.On("Upsert", ctx, mock.MatchedBy(func(l *entity.IdentityLink) bool {
		return l.IdentifierType == entity.IdentifierPhone
	})).Return(entity.ErrIdentityConflict)
	mockIdentities.On("FindCustomerID", ctx, entity.IdentifierPhone, "+5511999990000").Return("cust-other", nil)
	mockIdentities.On("RecordAudit", ctx, mock.MatchedBy(func(a *entity.IdentityAudit) bool {
		return a.OwnerID == "cust-other" && a.ClaimantID == "cust-1"
	})).Return(nil)

	uc := newResolveUC(mockCustomers, mockIdentities)
	customer, err := uc.Execute(ctx, ResolveCustomerInput{
		Email:    "a@x.com",
		Phone:    "+5511999990000",
		TenantID: 1,
		Source:   "whatsapp",
	})

	assert.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)
	mockIdentities.AssertExpectations(t)
}
