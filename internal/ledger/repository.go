package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

// Repository manages persistence for stock movements and the guarded
// quantity math on spare parts.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindPartByID loads the spare part a movement refers to.
func (r *Repository) FindPartByID(ctx context.Context, id uuid.UUID) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// PartQuantity reads the current on-hand count for the part.
func (r *Repository) PartQuantity(ctx context.Context, id uuid.UUID) (int, error) {
	var quantity int
	err := r.db.WithContext(ctx).
		Model(&models.SparePart{}).
		Where("id = ?", id).
		Pluck("quantity", &quantity).Error
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// IncreaseQuantity adds qty to the part's on-hand count.
func (r *Repository) IncreaseQuantity(ctx context.Context, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE spare_parts
		SET quantity = quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, partID).Error
}

// DecreaseQuantity subtracts qty from the part's on-hand count. The check
// and the decrement are a single statement so two concurrent issues can
// never drive the count below zero. Returns false when the part did not
// hold enough stock and nothing was changed.
func (r *Repository) DecreaseQuantity(ctx context.Context, partID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return true, nil
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE spare_parts
		SET quantity = quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, partID, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateStockIn inserts a stock-in entry.
func (r *Repository) CreateStockIn(ctx context.Context, entry *models.StockIn) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListStockIns returns all stock-in entries with their part details,
// newest movement first.
func (r *Repository) ListStockIns(ctx context.Context) ([]models.StockIn, error) {
	var entries []models.StockIn
	err := r.db.WithContext(ctx).
		Preload("SparePart").
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateStockOut inserts a stock-out entry.
func (r *Repository) CreateStockOut(ctx context.Context, entry *models.StockOut) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindStockOutForUpdate loads a stock-out entry with a row-level lock so
// amendments and deletions of the same entry serialize. Must run inside a
// transaction; Postgres takes SELECT ... FOR UPDATE, sqlite falls back to
// its database-level write lock.
func (r *Repository) FindStockOutForUpdate(ctx context.Context, id uuid.UUID) (*models.StockOut, error) {
	var entry models.StockOut
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("SparePart").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveStockOut persists amended fields of an existing stock-out entry.
func (r *Repository) SaveStockOut(ctx context.Context, entry *models.StockOut) error {
	return r.db.WithContext(ctx).
		Model(&models.StockOut{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"quantity":    entry.Quantity,
			"unit_price":  entry.UnitPrice,
			"total_price": entry.TotalPrice,
			"date":        entry.Date,
		}).Error
}

// DeleteStockOut removes a stock-out entry. Returns gorm.ErrRecordNotFound
// when no row matched, so a concurrent delete of the same entry cannot
// restore the part quantity twice.
func (r *Repository) DeleteStockOut(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.StockOut{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListStockOuts returns all stock-out entries with their part details,
// newest movement first.
func (r *Repository) ListStockOuts(ctx context.Context) ([]models.StockOut, error) {
	var entries []models.StockOut
	err := r.db.WithContext(ctx).
		Preload("SparePart").
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
