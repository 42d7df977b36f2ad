package parts

import (
	"context"

	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

// Repository exposes spare part persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a parts repo bound to the provided GORM DB.
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

// Create inserts a new spare part.
func (r *Repository) Create(ctx context.Context, part *models.SparePart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// FindByName retrieves the part matching the provided name exactly.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// List returns all spare parts ordered by name for dropdown selections.
func (r *Repository) List(ctx context.Context) ([]models.SparePart, error) {
	var result []models.SparePart
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
