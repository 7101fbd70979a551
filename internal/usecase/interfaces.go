package usecase

import (
	"context"
	"time"

	"github.com/arsdatascience/customer-engine/internal/entity"
	"github.com/arsdatascience/customer-engine/internal/infra/queue"
)

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *entity.UnifiedCustomer) error
	FindByID(ctx context.Context, id string) (*entity.UnifiedCustomer, error)
	// FindByEmail busca escopado ao tenant, com fallback para registros
	// legados sem tenant.
	FindByEmail(ctx context.Context, tenantID int64, email string) (*entity.UnifiedCustomer, error)
	FindByPhone(ctx context.Context, tenantID int64, phone string) (*entity.UnifiedCustomer, error)
	FindByMessagingHandle(ctx context.Context, tenantID int64, handle string) (*entity.UnifiedCustomer, error)
	UpdateStage(ctx context.Context, customerID string, stage entity.Stage) error
}

type IdentityRepositoryInterface interface {
	// Upsert por (type, value): em conflito do mesmo dono, confidence vira
	// max(atual, novo) e last_seen é renovado. Dono diferente retorna
	// entity.ErrIdentityConflict.
	Upsert(ctx context.Context, link *entity.IdentityLink) error
	FindCustomerID(ctx context.Context, identifierType entity.IdentifierType, value string) (string, error)
	RecordAudit(ctx context.Context, audit *entity.IdentityAudit) error
}

type InteractionRepositoryInterface interface {
	// AppendWithRollup insere o evento e atualiza os rollups do cliente
	// na mesma transação.
	AppendWithRollup(ctx context.Context, it *entity.Interaction) error
}

type JourneyRepositoryInterface interface {
	Create(ctx context.Context, j *entity.Journey) error
	FindByID(ctx context.Context, id string) (*entity.Journey, error)
	Update(ctx context.Context, j *entity.Journey) error
	CompleteActiveByCustomer(ctx context.Context, customerID string) (int64, error)
}

type ConversionRepositoryInterface interface {
	// SaveWithCustomerUpdate persiste o evento e aplica os efeitos no
	// cliente (incremento atômico de LTV) numa transação única.
	SaveWithCustomerUpdate(ctx context.Context, ev *entity.ConversionEvent) error
}

type StatsRepositoryInterface interface {
	StageDistribution(ctx context.Context, tenantID int64) ([]entity.StageStats, error)
	ChannelMix(ctx context.Context, tenantID int64, since time.Time) ([]entity.ChannelStats, error)
}

type QueueProducerInterface interface {
	PublishConversion(ctx context.Context, payload queue.ConversionPayload) error
}
