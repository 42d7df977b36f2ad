package parts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartpark-rw/sims-backend/pkg/db/models"
)

// CreateSparePartRequest is the payload accepted when registering a new part.
// The supplied quantity becomes both the on-hand count and the immutable
// baseline used when replaying movement history.
type CreateSparePartRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Category  string          `json:"category" validate:"required,max=50"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SparePartDTO is the spare part payload returned to clients.
type SparePartDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalValue decimal.Decimal `json:"totalValue"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// FromModel builds the transport shape from the persisted part.
func FromModel(p *models.SparePart) *SparePartDTO {
	if p == nil {
		return nil
	}

	return &SparePartDTO{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		TotalValue: p.TotalValue(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
