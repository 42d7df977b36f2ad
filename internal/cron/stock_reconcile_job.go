package cron

import (
	"context"
	"fmt"

	"github.com/smartpark-rw/sims-backend/internal/ledger"
	"github.com/smartpark-rw/sims-backend/pkg/logger"
)

// driftChecker is the slice of the ledger reconciler this job needs.
type driftChecker interface {
	Run(ctx context.Context) ([]ledger.Drift, error)
}

// StockReconcileJobParams configure the drift check job.
type StockReconcileJobParams struct {
	Logger     *logger.Logger
	Reconciler driftChecker
}

// NewStockReconcileJob builds the cron job that replays movement history
// against the maintained part quantities.
func NewStockReconcileJob(params StockReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	return &stockReconcileJob{
		logg:       params.Logger,
		reconciler: params.Reconciler,
	}, nil
}

type stockReconcileJob struct {
	logg       *logger.Logger
	reconciler driftChecker
}

func (j *stockReconcileJob) Name() string { return "stock-reconcile" }

func (j *stockReconcileJob) Run(ctx context.Context) error {
	drifts, err := j.reconciler.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconcile stock: %w", err)
	}
	if len(drifts) == 0 {
		return nil
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"drifted": len(drifts)})
	j.logg.Warn(logCtx, "stock reconciliation found drifted parts")
	return nil
}
