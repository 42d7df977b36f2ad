package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

// RecordStockInRequest is the payload accepted when receiving stock.
// Date defaults to the current time when omitted.
type RecordStockInRequest struct {
	SparePartID uuid.UUID  `json:"sparePartId" validate:"required"`
	Quantity    int        `json:"quantity" validate:"required,min=1"`
	Date        *time.Time `json:"date,omitempty"`
}

// RecordStockOutRequest is the payload accepted when issuing stock. The unit
// price is captured on the movement and does not track the part's own price.
type RecordStockOutRequest struct {
	SparePartID uuid.UUID       `json:"sparePartId" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Date        *time.Time      `json:"date,omitempty"`
}

// AmendStockOutRequest carries the optional fields of a stock-out amendment.
// Omitted fields keep their recorded values.
type AmendStockOutRequest struct {
	Quantity  *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Date      *time.Time       `json:"date,omitempty"`
}

// PartSummary is the part detail embedded in movement payloads.
type PartSummary struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// StockInDTO is the stock-in entry returned to clients.
type StockInDTO struct {
	ID          uuid.UUID   `json:"id"`
	SparePartID uuid.UUID   `json:"sparePartId"`
	SparePart   PartSummary `json:"sparePart"`
	Quantity    int         `json:"quantity"`
	Date        time.Time   `json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// StockOutDTO is the stock-out entry returned to clients.
type StockOutDTO struct {
	ID          uuid.UUID       `json:"id"`
	SparePartID uuid.UUID       `json:"sparePartId"`
	SparePart   PartSummary     `json:"sparePart"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func stockInDTO(entry *models.StockIn) *StockInDTO {
	if entry == nil {
		return nil
	}

	return &StockInDTO{
		ID:          entry.ID,
		SparePartID: entry.SparePartID,
		SparePart: PartSummary{
			Name:     entry.SparePart.Name,
			Category: entry.SparePart.Category,
		},
		Quantity:  entry.Quantity,
		Date:      entry.Date,
		CreatedAt: entry.CreatedAt,
	}
}

func stockOutDTO(entry *models.StockOut) *StockOutDTO {
	if entry == nil {
		return nil
	}

	return &StockOutDTO{
		ID:          entry.ID,
		SparePartID: entry.SparePartID,
		SparePart: PartSummary{
			Name:     entry.SparePart.Name,
			Category: entry.SparePart.Category,
		},
		Quantity:   entry.Quantity,
		UnitPrice:  entry.UnitPrice,
		TotalPrice: entry.TotalPrice,
		Date:       entry.Date,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}
