package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type JourneyRepository struct {
	DB *sql.DB
}

func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{DB: db}
}

func (r *JourneyRepository) Create(ctx context.Context, j *entity.Journey) error {
	triggerData, err := jsonb(j.TriggerData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO journeys (
			id, customer_id, tenant_id, type, current_step, total_steps,
			status, trigger_data, started_at, last_step_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.DB.ExecContext(ctx, query,
		j.ID,
		j.CustomerID,
		j.TenantID,
		j.Type,
		j.CurrentStep,
		j.TotalSteps,
		string(j.Status),
		triggerData,
		j.StartedAt,
		j.LastStepAt,
		j.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao criar jornada: %w", err)
	}
	return nil
}

func (r *JourneyRepository) FindByID(ctx context.Context, id string) (*entity.Journey, error) {
	query := `
		SELECT id, customer_id, COALESCE(tenant_id, 0), type, current_step, total_steps,
			status, trigger_data, started_at, last_step_at, completed_at
		FROM journeys
		WHERE id = $1
	`

	var j entity.Journey
	var status string
	var triggerData []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&j.ID,
		&j.CustomerID,
		&j.TenantID,
		&j.Type,
		&j.CurrentStep,
		&j.TotalSteps,
		&status,
		&triggerData,
		&j.StartedAt,
		&j.LastStepAt,
		&j.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler jornada: %w", err)
	}

	j.Status = entity.JourneyStatus(status)
	if err := unmarshalJSONB(triggerData, &j.TriggerData); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JourneyRepository) Update(ctx context.Context, j *entity.Journey) error {
	query := `
		UPDATE journeys SET
			current_step = $2,
			status = $3,
			last_step_at = $4,
			completed_at = $5
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		j.ID,
		j.CurrentStep,
		string(j.Status),
		j.LastStepAt,
		j.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar jornada: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// CompleteActiveByCustomer fecha todas as jornadas ativas do cliente.
// Usado pelo consumidor de conversões.
func (r *JourneyRepository) CompleteActiveByCustomer(ctx context.Context, customerID string) (int64, error) {
	query := `
		UPDATE journeys SET
			status = 'completed',
			current_step = total_steps,
			last_step_at = NOW(),
			completed_at = NOW()
		WHERE customer_id = $1 AND status = 'active'
	`

	res, err := r.DB.ExecContext(ctx, query, customerID)
	if err != nil {
		return 0, fmt.Errorf("falha ao completar jornadas: %w", err)
	}
	return res.RowsAffected()
}
