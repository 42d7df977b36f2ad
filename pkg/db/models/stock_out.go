package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockOut records a quantity issued from stock. UnitPrice is captured at
// movement time and does not track the part's current price. TotalPrice is
// always quantity times unit price and is recomputed on amendment.
type StockOut struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SparePartID uuid.UUID       `gorm:"column:spare_part_id;type:uuid;not null;index"`
	SparePart   SparePart       `gorm:"foreignKey:SparePartID"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	Date        time.Time       `gorm:"column:date;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockOut) TableName() string { return "stock_outs" }
