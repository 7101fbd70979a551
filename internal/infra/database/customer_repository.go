package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `
	id, COALESCE(tenant_id, 0), client_id,
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(messaging_handle, ''), COALESCE(name, ''),
	current_stage, COALESCE(last_channel, ''), last_interaction, total_touchpoints,
	lifetime_value, purchase_count, tags, segments,
	cart_value, cart_snapshot, created_at, updated_at
`

func (r *CustomerRepository) Create(ctx context.Context, c *entity.UnifiedCustomer) error {
	tags, err := jsonb(c.Tags)
	if err != nil {
		return err
	}
	segments, err := jsonb(c.Segments)
	if err != nil {
		return err
	}
	snapshot, err := jsonb(c.CartSnapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (
			id, tenant_id, client_id, email, phone, messaging_handle, name,
			current_stage, last_channel, last_interaction, total_touchpoints,
			lifetime_value, purchase_count, tags, segments,
			cart_value, cart_snapshot, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.TenantID,
		c.ClientID,
		nullString(c.Email),
		nullString(c.Phone),
		nullString(c.MessagingHandle),
		nullString(c.Name),
		string(c.CurrentStage),
		nullString(c.LastChannel),
		c.LastInteraction,
		c.TotalTouchpoints,
		c.LifetimeValue,
		c.PurchaseCount,
		tags,
		segments,
		c.CartValue,
		snapshot,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Perdeu a corrida do insert: o caller refaz o lookup.
			return entity.ErrIdentifierTaken
		}
		return fmt.Errorf("falha ao criar cliente: %w", err)
	}

	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.UnifiedCustomer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.DB.QueryRowContext(ctx, query, id))
}

// FindByEmail busca escopado ao tenant, com fallback para registros
// legados sem tenant. Linha tenantada tem prioridade.
func (r *CustomerRepository) FindByEmail(ctx context.Context, tenantID int64, email string) (*entity.UnifiedCustomer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE email = $2 AND (tenant_id = $1 OR tenant_id IS NULL)
		ORDER BY tenant_id NULLS LAST
		LIMIT 1
	`
	return r.scanCustomer(r.DB.QueryRowContext(ctx, query, tenantID, email))
}

// FindByPhone consulta direto a tabela de clientes, sem passar pelo grafo
// de identidade. Cobre a janela em que o cliente já existe mas os links
// ainda não foram gravados.
func (r *CustomerRepository) FindByPhone(ctx context.Context, tenantID int64, phone string) (*entity.UnifiedCustomer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE phone = $2 AND (tenant_id = $1 OR tenant_id IS NULL)
		ORDER BY tenant_id NULLS LAST
		LIMIT 1
	`
	return r.scanCustomer(r.DB.QueryRowContext(ctx, query, tenantID, phone))
}

func (r *CustomerRepository) FindByMessagingHandle(ctx context.Context, tenantID int64, handle string) (*entity.UnifiedCustomer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE messaging_handle = $2 AND (tenant_id = $1 OR tenant_id IS NULL)
		ORDER BY tenant_id NULLS LAST
		LIMIT 1
	`
	return r.scanCustomer(r.DB.QueryRowContext(ctx, query, tenantID, handle))
}

func (r *CustomerRepository) UpdateStage(ctx context.Context, customerID string, stage entity.Stage) error {
	query := `UPDATE customers SET current_stage = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, customerID, string(stage))
	if err != nil {
		return fmt.Errorf("falha ao atualizar estágio: %w", err)
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

func (r *CustomerRepository) scanCustomer(row *sql.Row) (*entity.UnifiedCustomer, error) {
	var c entity.UnifiedCustomer
	var stage string
	var tags, segments, snapshot []byte

	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.ClientID,
		&c.Email,
		&c.Phone,
		&c.MessagingHandle,
		&c.Name,
		&stage,
		&c.LastChannel,
		&c.LastInteraction,
		&c.TotalTouchpoints,
		&c.LifetimeValue,
		&c.PurchaseCount,
		&tags,
		&segments,
		&c.CartValue,
		&snapshot,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler cliente: %w", err)
	}

	c.CurrentStage = entity.Stage(stage)
	if err := unmarshalJSONB(tags, &c.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(segments, &c.Segments); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(snapshot, &c.CartSnapshot); err != nil {
		return nil, err
	}

	return &c, nil
}
