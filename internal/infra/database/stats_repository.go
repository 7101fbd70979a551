package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) StageDistribution(ctx context.Context, tenantID int64) ([]entity.StageStats, error) {
	query := `
		SELECT current_stage,
			COUNT(*),
			COALESCE(AVG(total_touchpoints), 0),
			COALESCE(AVG(lifetime_value), 0)
		FROM customers
		WHERE tenant_id = $1
		GROUP BY current_stage
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("falha na distribuição por estágio: %w", err)
	}
	defer rows.Close()

	var stats []entity.StageStats
	for rows.Next() {
		var s entity.StageStats
		var stage string
		if err := rows.Scan(&stage, &s.Count, &s.AvgTouchpoints, &s.AvgLifetimeValue); err != nil {
			return nil, err
		}
		s.Stage = entity.Stage(stage)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ChannelMix: interações por canal dentro da janela, volume decrescente.
// O corte é inclusivo: occurred_at >= since.
func (r *StatsRepository) ChannelMix(ctx context.Context, tenantID int64, since time.Time) ([]entity.ChannelStats, error) {
	query := `
		SELECT channel,
			COUNT(*),
			COUNT(DISTINCT customer_id)
		FROM interactions
		WHERE tenant_id = $1 AND occurred_at >= $2
		GROUP BY channel
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("falha no mix de canais: %w", err)
	}
	defer rows.Close()

	var stats []entity.ChannelStats
	for rows.Next() {
		var s entity.ChannelStats
		if err := rows.Scan(&s.Channel, &s.InteractionCount, &s.UniqueCustomers); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
