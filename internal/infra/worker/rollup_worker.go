package worker

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// RollupReconciliationWorker recomputa total_touchpoints a partir do log
// imutável de interações e corrige drift causado por falha parcial.
// O contato inicial do resolve não gera linha em interactions, então o
// valor correto é sempre COUNT(interactions) + 1.
// Os incrementos no caminho quente continuam valendo; isto é a rede de
// segurança periódica.
type RollupReconciliationWorker struct {
	db           *sql.DB
	tickInterval time.Duration
	log          *zap.Logger
}

func NewRollupReconciliationWorker(db *sql.DB, log *zap.Logger) *RollupReconciliationWorker {
	return &RollupReconciliationWorker{
		db:           db,
		tickInterval: 15 * time.Minute,
		log:          log,
	}
}

func (w *RollupReconciliationWorker) Start(ctx context.Context) {
	w.log.Info("rollup reconciliation worker iniciado",
		zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("rollup reconciliation worker encerrado")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *RollupReconciliationWorker) reconcile(ctx context.Context) {
	query := `
		UPDATE customers c SET
			total_touchpoints = i.cnt + 1,
			updated_at = NOW()
		FROM (
			SELECT c2.id AS customer_id, COUNT(i2.id) AS cnt
			FROM customers c2
			LEFT JOIN interactions i2 ON i2.customer_id = c2.id
			GROUP BY c2.id
		) i
		WHERE c.id = i.customer_id
		  AND c.total_touchpoints <> i.cnt + 1
	`

	res, err := w.db.ExecContext(ctx, query)
	if err != nil {
		w.log.Error("falha na reconciliação de rollups", zap.Error(err))
		return
	}

	repaired, err := res.RowsAffected()
	if err != nil {
		return
	}
	if repaired > 0 {
		w.log.Warn("rollups com drift corrigidos", zap.Int64("customers", repaired))
	}
}
