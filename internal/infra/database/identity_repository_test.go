package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arsdatascience/customer-engine/internal/entity"
)

// Re-visto com confiança maior: o link existente do mesmo dono é atualizado
// e a confiança resultante é max(atual, novo), nunca uma simples troca.
func TestIdentityUpsertKeepsMaxConfidence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link, err := entity.NewIdentityLink("cust-1", entity.IdentifierPhone, "+5511999990000", 0.99, "whatsapp")
	require.NoError(t, err)

	mock.ExpectQuery(`(?s)ON CONFLICT \(identifier_type, identifier_value\) DO UPDATE SET\s+confidence = GREATEST\(identity_links\.confidence, EXCLUDED\.confidence\)`).
		WithArgs(sqlmock.AnyArg(), "cust-1", "phone", "+5511999990000", 0.99, "whatsapp").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow("cust-1"))

	repo := NewIdentityRepository(db)
	err = repo.Upsert(context.Background(), link)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Identificador já preso a outro cliente: a cláusula WHERE bloqueia o
// update, nenhuma linha retorna e o conflito é sinalizado ao caller.
func TestIdentityUpsertRejectsDifferentOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link, err := entity.NewIdentityLink("cust-2", entity.IdentifierPhone, "+5511999990000", 0.95, "sms")
	require.NoError(t, err)

	mock.ExpectQuery(`ON CONFLICT \(identifier_type, identifier_value\)`).
		WithArgs(sqlmock.AnyArg(), "cust-2", "phone", "+5511999990000", 0.95, "sms").
		WillReturnError(sql.ErrNoRows)

	repo := NewIdentityRepository(db)
	err = repo.Upsert(context.Background(), link)

	assert.ErrorIs(t, err, entity.ErrIdentityConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
