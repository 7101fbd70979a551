package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

type IdentityRepository struct {
	DB *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{DB: db}
}

// Upsert por (identifier_type, identifier_value). Mesmo dono: confidence
// vira max(atual, novo) e last_seen é renovado. Dono diferente: a cláusula
// WHERE impede o update, nenhuma linha volta e o conflito é sinalizado.
func (r *IdentityRepository) Upsert(ctx context.Context, link *entity.IdentityLink) error {
	query := `
		INSERT INTO identity_links (
			id, customer_id, identifier_type, identifier_value,
			confidence, source_channel, last_seen_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (identifier_type, identifier_value) DO UPDATE SET
			confidence = GREATEST(identity_links.confidence, EXCLUDED.confidence),
			source_channel = EXCLUDED.source_channel,
			last_seen_at = NOW()
		WHERE identity_links.customer_id = EXCLUDED.customer_id
		RETURNING customer_id
	`

	var ownerID string
	err := r.DB.QueryRowContext(ctx, query,
		link.ID,
		link.CustomerID,
		string(link.IdentifierType),
		link.IdentifierValue,
		link.Confidence,
		nullString(link.SourceChannel),
	).Scan(&ownerID)

	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrIdentityConflict
	}
	if err != nil {
		return fmt.Errorf("falha no upsert de identidade: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindCustomerID(ctx context.Context, identifierType entity.IdentifierType, value string) (string, error) {
	query := `
		SELECT customer_id FROM identity_links
		WHERE identifier_type = $1 AND identifier_value = $2
	`

	var customerID string
	err := r.DB.QueryRowContext(ctx, query, string(identifierType), value).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("falha ao buscar identidade: %w", err)
	}
	return customerID, nil
}

func (r *IdentityRepository) RecordAudit(ctx context.Context, audit *entity.IdentityAudit) error {
	query := `
		INSERT INTO identity_audit (
			id, identifier_type, identifier_value, owner_id, claimant_id, source_channel, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		audit.ID,
		string(audit.IdentifierType),
		audit.IdentifierValue,
		audit.OwnerID,
		audit.ClaimantID,
		nullString(audit.SourceChannel),
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao gravar auditoria de identidade: %w", err)
	}
	return nil
}
