package usecase

import (
	"context"
	"time"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

// ChannelMixWindow é a janela deslizante do mix de canais.
const ChannelMixWindow = 30 * 24 * time.Hour

// StatsUseCase expõe projeções read-only para dashboards. Nenhuma mutação.
type StatsUseCase struct {
	Stats StatsRepositoryInterface
}

func NewStatsUseCase(stats StatsRepositoryInterface) *StatsUseCase {
	return &StatsUseCase{Stats: stats}
}

// CustomerJourneyStats agrupa os clientes do tenant por estágio:
// contagem, média de touchpoints e média de LTV.
func (uc *StatsUseCase) CustomerJourneyStats(ctx context.Context, tenantID int64) ([]entity.StageStats, error) {
	stats, err := uc.Stats.StageDistribution(ctx, tenantID)
	if err != nil {
		return nil, &TransientStoreError{Op: "stage distribution", Err: err}
	}
	return stats, nil
}

// ChannelMixStats agrupa interações dos últimos 30 dias por canal,
// ordenado por volume decrescente. O corte é relativo ao momento da chamada.
func (uc *StatsUseCase) ChannelMixStats(ctx context.Context, tenantID int64) ([]entity.ChannelStats, error) {
	since := time.Now().Add(-ChannelMixWindow)
	stats, err := uc.Stats.ChannelMix(ctx, tenantID, since)
	if err != nil {
		return nil, &TransientStoreError{Op: "channel mix", Err: err}
	}
	return stats, nil
}
