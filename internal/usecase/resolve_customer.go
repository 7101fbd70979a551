package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/entity"
	"github.com/arsdatascience/customer-engine/internal/infra/http/middleware"
)

type ResolveCustomerInput struct {
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	MessagingHandle string   `json:"messaging_handle,omitempty"`
	TenantID        int64    `json:"tenant_id"`
	ClientID        *string  `json:"client_id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Source          string   `json:"source"`
	Tags            []string `json:"tags,omitempty"`
}

type ResolveCustomerUseCase struct {
	Customers  CustomerRepositoryInterface
	Identities IdentityRepositoryInterface
	Log        *zap.Logger
}

func NewResolveCustomerUseCase(customers CustomerRepositoryInterface, identities IdentityRepositoryInterface, log *zap.Logger) *ResolveCustomerUseCase {
	return &ResolveCustomerUseCase{
		Customers:  customers,
		Identities: identities,
		Log:        log,
	}
}

// Execute encontra-ou-cria o cliente unificado para o conjunto de
// identificadores. Idempotente sob chamadas concorrentes: a unicidade fica
// no banco e um conflito de insert dispara uma nova rodada de lookup.
func (uc *ResolveCustomerUseCase) Execute(ctx context.Context, input ResolveCustomerInput) (*entity.UnifiedCustomer, error) {
	ids := entity.IdentifierSet{
		Email:           input.Email,
		Phone:           input.Phone,
		MessagingHandle: input.MessagingHandle,
	}
	if ids.Empty() {
		return nil, &ValidationError{"identifiers", "at least one of email, phone or messaging_handle is required"}
	}

	// Duas tentativas: se o insert perder a corrida (chave única), o
	// segundo lookup encontra o vencedor.
	for attempt := 0; attempt < 2; attempt++ {
		customer, err := uc.lookup(ctx, input.TenantID, ids)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			uc.registerIdentifiers(ctx, customer.ID, ids, input.Source)
			middleware.RecordCustomerResolved("matched")
			return customer, nil
		}

		customer, err = entity.NewUnifiedCustomer(ids, input.TenantID, input.ClientID, input.Name, input.Source)
		if err != nil {
			return nil, &ValidationError{"identifiers", err.Error()}
		}
		customer.Tags = input.Tags

		err = uc.Customers.Create(ctx, customer)
		if errors.Is(err, entity.ErrIdentifierTaken) {
			uc.Log.Info("resolve lost creation race, retrying lookup",
				zap.Int64("tenant_id", input.TenantID))
			continue
		}
		if err != nil {
			return nil, &TransientStoreError{Op: "create customer", Err: err}
		}

		uc.registerIdentifiers(ctx, customer.ID, ids, input.Source)
		middleware.RecordCustomerResolved("created")
		return customer, nil
	}

	return nil, &ConflictError{
		Code:    "RESOLVE_RACE",
		Message: "could not resolve customer: identifier ownership changed concurrently",
	}
}

func (uc *ResolveCustomerUseCase) lookup(ctx context.Context, tenantID int64, ids entity.IdentifierSet) (*entity.UnifiedCustomer, error) {
	// Ordem: email escopado ao tenant primeiro, depois grafo de identidade
	// por phone e messaging handle. Primeiro match vence.
	if ids.Email != "" {
		customer, err := uc.Customers.FindByEmail(ctx, tenantID, ids.Email)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, &TransientStoreError{Op: "find by email", Err: err}
		}
	}

	for _, probe := range []struct {
		typ    entity.IdentifierType
		value  string
		direct func(context.Context, int64, string) (*entity.UnifiedCustomer, error)
	}{
		{entity.IdentifierPhone, ids.Phone, uc.Customers.FindByPhone},
		{entity.IdentifierMessaging, ids.MessagingHandle, uc.Customers.FindByMessagingHandle},
	} {
		if probe.value == "" {
			continue
		}
		customerID, err := uc.Identities.FindCustomerID(ctx, probe.typ, probe.value)
		if err == nil {
			customer, err := uc.Customers.FindByID(ctx, customerID)
			if err == nil {
				return customer, nil
			}
			if !errors.Is(err, entity.ErrNotFound) {
				return nil, &TransientStoreError{Op: "find by id", Err: err}
			}
			// Link órfão; cai para a busca direta.
			uc.Log.Warn("identity link points to missing customer",
				zap.String("customer_id", customerID),
				zap.String("identifier_type", string(probe.typ)))
		} else if !errors.Is(err, entity.ErrNotFound) {
			return nil, &TransientStoreError{Op: "identity lookup", Err: err}
		}

		// O vencedor de uma corrida de insert grava os links depois do
		// cliente: a tabela de clientes é quem fecha essa janela.
		customer, err := probe.direct(ctx, tenantID, probe.value)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, &TransientStoreError{Op: "find by " + string(probe.typ), Err: err}
		}
	}

	return nil, nil
}

// registerIdentifiers garante os links no grafo para todos os
// identificadores presentes. Conflito de dono não derruba a resolução:
// vira warning + trilha de auditoria.
func (uc *ResolveCustomerUseCase) registerIdentifiers(ctx context.Context, customerID string, ids entity.IdentifierSet, source string) {
	for _, reg := range []struct {
		typ        entity.IdentifierType
		value      string
		confidence float64
	}{
		{entity.IdentifierEmail, ids.Email, entity.ConfidenceEmail},
		{entity.IdentifierPhone, ids.Phone, entity.ConfidencePhone},
		{entity.IdentifierMessaging, ids.MessagingHandle, entity.ConfidenceMessaging},
	} {
		if reg.value == "" {
			continue
		}
		link, err := entity.NewIdentityLink(customerID, reg.typ, reg.value, reg.confidence, source)
		if err != nil {
			uc.Log.Warn("skipping invalid identity link", zap.Error(err))
			continue
		}

		err = uc.Identities.Upsert(ctx, link)
		if errors.Is(err, entity.ErrIdentityConflict) {
			uc.auditConflict(ctx, reg.typ, reg.value, customerID, source)
			continue
		}
		if err != nil {
			uc.Log.Warn("identity upsert failed",
				zap.String("identifier_type", string(reg.typ)),
				zap.Error(err))
		}
	}
}

func (uc *ResolveCustomerUseCase) auditConflict(ctx context.Context, typ entity.IdentifierType, value, claimantID, source string) {
	middleware.RecordIdentityConflict(string(typ))

	ownerID, err := uc.Identities.FindCustomerID(ctx, typ, value)
	if err != nil {
		ownerID = "unknown"
	}

	uc.Log.Warn("identifier already bound to another customer",
		zap.String("identifier_type", string(typ)),
		zap.String("owner_id", ownerID),
		zap.String("claimant_id", claimantID))

	audit := entity.NewIdentityAudit(typ, value, ownerID, claimantID, source)
	if err := uc.Identities.RecordAudit(ctx, audit); err != nil {
		uc.Log.Error("failed to record identity audit", zap.Error(err))
	}
}
