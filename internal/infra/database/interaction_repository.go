package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

// AppendWithRollup insere o evento e incrementa os rollups do cliente na
// mesma transação. Incremento atômico no SQL, nunca read-modify-write
// na aplicação.
func (r *InteractionRepository) AppendWithRollup(ctx context.Context, it *entity.Interaction) error {
	metadata, err := jsonb(it.Metadata)
	if err != nil {
		return err
	}
	utm, err := jsonb(it.UTM)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO interactions (
			id, customer_id, tenant_id, channel, type, campaign_id, metadata, utm, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, insert,
		it.ID,
		it.CustomerID,
		it.TenantID,
		it.Channel,
		it.Type,
		it.CampaignID,
		metadata,
		utm,
		it.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir interação: %w", err)
	}

	rollup := `
		UPDATE customers SET
			total_touchpoints = total_touchpoints + 1,
			last_channel = $2,
			last_interaction = $3,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, rollup, it.CustomerID, it.Channel, it.OccurredAt)
	if err != nil {
		return fmt.Errorf("falha ao atualizar rollups: %w", err)
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
