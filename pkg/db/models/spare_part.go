package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SparePart is a stocked item. Quantity is the maintained on-hand count,
// adjusted incrementally as movements are recorded, amended, or deleted.
// InitialQuantity is the count supplied at creation and never changes; the
// reconciliation job uses it as the baseline when replaying movement history.
type SparePart struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;type:text;not null;uniqueIndex"`
	Category        string          `gorm:"column:category;type:text;not null"`
	Quantity        int             `gorm:"column:quantity;not null;default:0"`
	InitialQuantity int             `gorm:"column:initial_quantity;not null;default:0"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (SparePart) TableName() string { return "spare_parts" }

// TotalValue is the informational quantity times unit price shown on listings.
func (p SparePart) TotalValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
