package worker

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// O resolve cria o cliente com total_touchpoints = 1 sem gravar linha em
// interactions. Sem o baseline + 1, um cliente resolvido e rastreado uma
// vez (valor correto 2, uma linha no log) seria "corrigido" para 1 a cada
// ciclo da reconciliação.
func TestReconcileCountsCreationContactAsBaseline(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE customers c SET\s+total_touchpoints = i\.cnt \+ 1.*<> i\.cnt \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	w := NewRollupReconciliationWorker(db, zap.NewNop())
	w.reconcile(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileSurvivesStoreError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE customers`).WillReturnError(assert.AnError)

	w := NewRollupReconciliationWorker(db, zap.NewNop())
	w.reconcile(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}
