package models

import (
	"time"

	"github.com/google/uuid"
)

// StockIn records a quantity received into stock. Rows are append-only.
type StockIn struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SparePartID uuid.UUID `gorm:"column:spare_part_id;type:uuid;not null;index"`
	SparePart   SparePart `gorm:"foreignKey:SparePartID"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Date        time.Time `gorm:"column:date;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (StockIn) TableName() string { return "stock_ins" }
