package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartSummary is the part detail embedded in report rows.
type PartSummary struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// StockOutEntry is a stock-out row as it appears in reports.
type StockOutEntry struct {
	ID          uuid.UUID       `json:"id"`
	SparePartID uuid.UUID       `json:"sparePartId"`
	SparePart   PartSummary     `json:"sparePart"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Date        time.Time       `json:"date"`
}

// DailyStockOutSummary totals the day's issues.
type DailyStockOutSummary struct {
	TotalEntries  int             `json:"totalEntries"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// DailyStockOutReport lists every issue on a day with totals.
type DailyStockOutReport struct {
	Date      string               `json:"date"`
	StockOuts []StockOutEntry      `json:"stockOuts"`
	Summary   DailyStockOutSummary `json:"summary"`
}

// PartStatus is one part's position as of a report date. Remaining is the
// pure movement balance; CurrentStock is the maintained count, so the two
// differ by the part's starting quantity.
type PartStatus struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	TotalStockIn      int       `json:"totalStockIn"`
	TotalStockOut     int       `json:"totalStockOut"`
	RemainingQuantity int       `json:"remainingQuantity"`
	CurrentStock      int       `json:"currentStock"`
}

// StockStatusSummary totals the status report.
type StockStatusSummary struct {
	TotalSpareParts        int `json:"totalSpareParts"`
	TotalStockIn           int `json:"totalStockIn"`
	TotalStockOut          int `json:"totalStockOut"`
	TotalRemainingQuantity int `json:"totalRemainingQuantity"`
}

// DailyStockStatusReport shows every part's movement balance up to a date.
type DailyStockStatusReport struct {
	Date        string             `json:"date"`
	StockStatus []PartStatus       `json:"stockStatus"`
	Summary     StockStatusSummary `json:"summary"`
}

// ReportPeriod is the inclusive date range of a movement summary.
type ReportPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// PartStockInSummary aggregates one part's receipts over the period.
type PartStockInSummary struct {
	SparePartID   uuid.UUID   `json:"sparePartId"`
	SparePart     PartSummary `json:"sparePart"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalEntries  int         `json:"totalEntries"`
}

// PartStockOutSummary aggregates one part's issues over the period.
type PartStockOutSummary struct {
	SparePartID   uuid.UUID       `json:"sparePartId"`
	SparePart     PartSummary     `json:"sparePart"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalEntries  int             `json:"totalEntries"`
}

// StockMovementSummaryReport aggregates both movement directions per part
// over a date range.
type StockMovementSummaryReport struct {
	Period          ReportPeriod          `json:"period"`
	StockInSummary  []PartStockInSummary  `json:"stockInSummary"`
	StockOutSummary []PartStockOutSummary `json:"stockOutSummary"`
}
