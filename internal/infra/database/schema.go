package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema cria tabelas e índices se ainda não existirem.
// Idempotente; roda no boot antes de aceitar tráfego.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("falha ao aplicar schema: %w", err)
	}
	return nil
}
