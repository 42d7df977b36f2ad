package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/db"
	"github.com/smartpark-rw/sims-backend/pkg/db/models"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
	"github.com/smartpark-rw/sims-backend/pkg/metrics"
)

// Movement kinds reported to metrics.
const (
	movementStockIn        = "stock_in"
	movementStockOut       = "stock_out"
	movementStockOutAmend  = "stock_out_amend"
	movementStockOutDelete = "stock_out_delete"
)

// Service records and amends stock movements. Every quantity-affecting
// operation runs in a single transaction so the movement row and the part's
// on-hand count never disagree.
type Service interface {
	RecordStockIn(ctx context.Context, req RecordStockInRequest) (*StockInDTO, error)
	ListStockIns(ctx context.Context) ([]StockInDTO, error)
	RecordStockOut(ctx context.Context, req RecordStockOutRequest) (*StockOutDTO, error)
	ListStockOuts(ctx context.Context) ([]StockOutDTO, error)
	AmendStockOut(ctx context.Context, id uuid.UUID, req AmendStockOutRequest) (*StockOutDTO, error)
	DeleteStockOut(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies for the ledger service.
type ServiceParams struct {
	DB      txRunner
	Repo    *Repository
	Metrics *metrics.LedgerMetrics
	Now     func() time.Time
}

type service struct {
	db      txRunner
	repo    *Repository
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// NewService wires the ledger service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repository required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

func (s *service) RecordStockIn(ctx context.Context, req RecordStockInRequest) (*StockInDTO, error) {
	if req.SparePartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid spare part ID is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	var created *StockInDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		part, err := repo.FindPartByID(ctx, req.SparePartID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "spare part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load spare part")
		}

		entry := &models.StockIn{
			ID:          uuid.New(),
			SparePartID: part.ID,
			Quantity:    req.Quantity,
			Date:        s.movementDate(req.Date),
		}
		if err := repo.CreateStockIn(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create stock in entry")
		}
		if err := repo.IncreaseQuantity(ctx, part.ID, req.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply stock in quantity")
		}

		entry.SparePart = *part
		created = stockInDTO(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(movementStockIn)
	return created, nil
}

func (s *service) ListStockIns(ctx context.Context) ([]StockInDTO, error) {
	entries, err := s.repo.ListStockIns(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stock in entries")
	}

	result := make([]StockInDTO, 0, len(entries))
	for i := range entries {
		result = append(result, *stockInDTO(&entries[i]))
	}
	return result, nil
}

func (s *service) RecordStockOut(ctx context.Context, req RecordStockOutRequest) (*StockOutDTO, error) {
	if req.SparePartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid spare part ID is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be a non-negative number")
	}

	var created *StockOutDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		part, err := repo.FindPartByID(ctx, req.SparePartID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "spare part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load spare part")
		}

		applied, err := repo.DecreaseQuantity(ctx, part.ID, req.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply stock out quantity")
		}
		if !applied {
			return s.insufficientStock(ctx, repo, part.ID)
		}

		entry := &models.StockOut{
			ID:          uuid.New(),
			SparePartID: part.ID,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			TotalPrice:  req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			Date:        s.movementDate(req.Date),
		}
		if err := repo.CreateStockOut(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create stock out entry")
		}

		entry.SparePart = *part
		created = stockOutDTO(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(movementStockOut)
	return created, nil
}

func (s *service) ListStockOuts(ctx context.Context) ([]StockOutDTO, error) {
	entries, err := s.repo.ListStockOuts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stock out entries")
	}

	result := make([]StockOutDTO, 0, len(entries))
	for i := range entries {
		result = append(result, *stockOutDTO(&entries[i]))
	}
	return result, nil
}

// AmendStockOut rewrites an existing stock-out entry. The part's on-hand
// count absorbs the signed difference between the new and old quantity, and
// sufficiency is checked only when the amendment issues additional stock.
func (s *service) AmendStockOut(ctx context.Context, id uuid.UUID, req AmendStockOutRequest) (*StockOutDTO, error) {
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be a non-negative number")
	}

	var amended *StockOutDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entry, err := repo.FindStockOutForUpdate(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock out entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stock out entry")
		}

		newQuantity := entry.Quantity
		if req.Quantity != nil {
			newQuantity = *req.Quantity
		}
		delta := newQuantity - entry.Quantity

		switch {
		case delta > 0:
			applied, err := repo.DecreaseQuantity(ctx, entry.SparePartID, delta)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply amendment quantity")
			}
			if !applied {
				return s.insufficientStock(ctx, repo, entry.SparePartID)
			}
		case delta < 0:
			if err := repo.IncreaseQuantity(ctx, entry.SparePartID, -delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply amendment quantity")
			}
		}

		entry.Quantity = newQuantity
		if req.UnitPrice != nil {
			entry.UnitPrice = *req.UnitPrice
		}
		if req.Date != nil {
			entry.Date = *req.Date
		}
		entry.TotalPrice = entry.UnitPrice.Mul(decimal.NewFromInt(int64(entry.Quantity)))

		if err := repo.SaveStockOut(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save stock out entry")
		}

		amended = stockOutDTO(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(movementStockOutAmend)
	return amended, nil
}

// DeleteStockOut removes a stock-out entry and returns its quantity to the
// part, in the same transaction.
func (s *service) DeleteStockOut(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entry, err := repo.FindStockOutForUpdate(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock out entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stock out entry")
		}

		if err := repo.DeleteStockOut(ctx, entry.ID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock out entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stock out entry")
		}
		if err := repo.IncreaseQuantity(ctx, entry.SparePartID, entry.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore part quantity")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncMovement(movementStockOutDelete)
	return nil
}

// insufficientStock builds the rejection after a guarded decrement matched
// no row, re-reading the available quantity inside the same transaction.
func (s *service) insufficientStock(ctx context.Context, repo *Repository, partID uuid.UUID) error {
	available, err := repo.PartQuantity(ctx, partID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read available quantity")
	}
	s.metrics.IncInsufficientStock()
	return pkgerrors.InsufficientStock(available)
}

func (s *service) movementDate(date *time.Time) time.Time {
	if date != nil {
		return date.UTC()
	}
	return s.now()
}
