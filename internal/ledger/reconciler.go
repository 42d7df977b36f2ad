package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/logger"
	"github.com/smartpark-rw/sims-backend/pkg/metrics"
)

const defaultReconcileBatchSize = 500

// Drift describes a part whose maintained count disagrees with its
// movement history.
type Drift struct {
	PartID   uuid.UUID `json:"partId"`
	Name     string    `json:"name"`
	Recorded int       `json:"recorded"`
	Expected int       `json:"expected"`
}

// Reconciler replays movement history against the maintained on-hand
// counts. Drift is flagged through logs and metrics, never repaired, so an
// operator can decide which side is wrong.
type Reconciler struct {
	db        *gorm.DB
	logg      *logger.Logger
	metrics   *metrics.LedgerMetrics
	batchSize int
}

// ReconcilerParams configure the drift checker.
type ReconcilerParams struct {
	DB        *gorm.DB
	Logger    *logger.Logger
	Metrics   *metrics.LedgerMetrics
	BatchSize int
}

// NewReconciler builds a reconciler over the provided database.
func NewReconciler(params ReconcilerParams) (*Reconciler, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultReconcileBatchSize
	}
	return &Reconciler{
		db:        params.DB,
		logg:      params.Logger,
		metrics:   params.Metrics,
		batchSize: batchSize,
	}, nil
}

type partBalance struct {
	ID              uuid.UUID
	Name            string
	Quantity        int
	InitialQuantity int
	StockInTotal    int
	StockOutTotal   int
}

const partBalanceQuery = `
SELECT p.id,
       p.name,
       p.quantity,
       p.initial_quantity,
       COALESCE(si.total, 0) AS stock_in_total,
       COALESCE(so.total, 0) AS stock_out_total
FROM spare_parts p
LEFT JOIN (
  SELECT spare_part_id, SUM(quantity) AS total FROM stock_ins GROUP BY spare_part_id
) si ON si.spare_part_id = p.id
LEFT JOIN (
  SELECT spare_part_id, SUM(quantity) AS total FROM stock_outs GROUP BY spare_part_id
) so ON so.spare_part_id = p.id
ORDER BY p.id
LIMIT ? OFFSET ?
`

// Run walks every part in batches and returns the drifted ones.
func (r *Reconciler) Run(ctx context.Context) ([]Drift, error) {
	var drifts []Drift
	checked := 0

	for offset := 0; ; offset += r.batchSize {
		var batch []partBalance
		err := r.db.WithContext(ctx).
			Raw(partBalanceQuery, r.batchSize, offset).
			Scan(&batch).Error
		if err != nil {
			return nil, fmt.Errorf("query part balances: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, balance := range batch {
			checked++
			expected := balance.InitialQuantity + balance.StockInTotal - balance.StockOutTotal
			if balance.Quantity == expected {
				continue
			}
			drifts = append(drifts, Drift{
				PartID:   balance.ID,
				Name:     balance.Name,
				Recorded: balance.Quantity,
				Expected: expected,
			})
			logCtx := r.logg.WithFields(ctx, map[string]any{
				"item_id":  balance.ID.String(),
				"name":     balance.Name,
				"recorded": balance.Quantity,
				"expected": expected,
			})
			r.logg.Warn(logCtx, "spare part quantity drifted from movement history")
		}

		if len(batch) < r.batchSize {
			break
		}
	}

	r.metrics.SetDriftItems(len(drifts))
	logCtx := r.logg.WithFields(ctx, map[string]any{
		"checked": checked,
		"drifted": len(drifts),
	})
	r.logg.Info(logCtx, "stock reconciliation complete")
	return drifts, nil
}
