package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type ConversionRepository struct {
	DB *sql.DB
}

func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{DB: db}
}

// SaveWithCustomerUpdate grava o evento e os efeitos no cliente numa
// transação única. LTV é incremento atômico no SQL: duas conversões
// concorrentes do mesmo cliente não perdem update. Qualquer erro desfaz
// tudo (sem crédito parcial).
func (r *ConversionRepository) SaveWithCustomerUpdate(ctx context.Context, ev *entity.ConversionEvent) error {
	path, err := jsonb(ev.TouchpointPath)
	if err != nil {
		return err
	}
	lastClick, err := jsonb(ev.LastClickCredits)
	if err != nil {
		return err
	}
	firstClick, err := jsonb(ev.FirstClickCredits)
	if err != nil {
		return err
	}
	linear, err := jsonb(ev.LinearCredits)
	if err != nil {
		return err
	}
	timeDecay, err := jsonb(ev.TimeDecayCredits)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO conversion_events (
			id, customer_id, tenant_id, type, value, order_id,
			touchpoint_path, touchpoints_count, first_touch, last_touch,
			last_click_credits, first_click_credits, linear_credits, time_decay_credits,
			occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.ExecContext(ctx, insert,
		ev.ID,
		ev.CustomerID,
		ev.TenantID,
		ev.Type,
		ev.Value,
		ev.OrderID,
		path,
		ev.TouchpointsCount,
		ev.FirstTouch,
		ev.LastTouch,
		lastClick,
		firstClick,
		linear,
		timeDecay,
		ev.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir conversão: %w", err)
	}

	update := `
		UPDATE customers SET
			lifetime_value = lifetime_value + $2,
			purchase_count = purchase_count + 1,
			current_stage = 'retention',
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, update, ev.CustomerID, ev.Value)
	if err != nil {
		return fmt.Errorf("falha ao atualizar valor do cliente: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotFound
	}

	return tx.Commit()
}
