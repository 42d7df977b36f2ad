package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

// Repository runs the read-only queries behind the reports.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StockOutsBetween returns issues with date in [from, to), oldest first.
func (r *Repository) StockOutsBetween(ctx context.Context, from, to time.Time) ([]models.StockOut, error) {
	var entries []models.StockOut
	err := r.db.WithContext(ctx).
		Preload("SparePart").
		Where("date >= ? AND date < ?", from, to).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// StockInsBetween returns receipts with date in [from, to), newest first.
func (r *Repository) StockInsBetween(ctx context.Context, from, to time.Time) ([]models.StockIn, error) {
	var entries []models.StockIn
	err := r.db.WithContext(ctx).
		Preload("SparePart").
		Where("date >= ? AND date < ?", from, to).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// PartMovementTotals is one part's movement aggregation up to a cutoff.
type PartMovementTotals struct {
	ID            uuid.UUID
	Name          string
	Category      string
	Quantity      int
	StockInTotal  int
	StockOutTotal int
}

const partMovementTotalsQuery = `
SELECT p.id,
       p.name,
       p.category,
       p.quantity,
       COALESCE(si.total, 0) AS stock_in_total,
       COALESCE(so.total, 0) AS stock_out_total
FROM spare_parts p
LEFT JOIN (
  SELECT spare_part_id, SUM(quantity) AS total FROM stock_ins WHERE date < ? GROUP BY spare_part_id
) si ON si.spare_part_id = p.id
LEFT JOIN (
  SELECT spare_part_id, SUM(quantity) AS total FROM stock_outs WHERE date < ? GROUP BY spare_part_id
) so ON so.spare_part_id = p.id
ORDER BY p.name
`

// PartMovementTotalsBefore aggregates each part's receipts and issues dated
// before the cutoff.
func (r *Repository) PartMovementTotalsBefore(ctx context.Context, cutoff time.Time) ([]PartMovementTotals, error) {
	var rows []PartMovementTotals
	err := r.db.WithContext(ctx).
		Raw(partMovementTotalsQuery, cutoff, cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
