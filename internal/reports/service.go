package reports

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// Service produces the read-side inventory reports. Nothing here writes;
// every report is a reduction over queried movement rows.
type Service interface {
	DailyStockOut(ctx context.Context, day time.Time) (*DailyStockOutReport, error)
	DailyStockStatus(ctx context.Context, day time.Time) (*DailyStockStatusReport, error)
	StockMovementSummary(ctx context.Context, start, end time.Time) (*StockMovementSummaryReport, error)
}

// ServiceParams packages the dependencies for the reports service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService wires the reports service with the provided repository.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reports repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) DailyStockOut(ctx context.Context, day time.Time) (*DailyStockOutReport, error) {
	from := day.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	entries, err := s.repo.StockOutsBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "query daily stock outs")
	}

	report := &DailyStockOutReport{
		Date:      from.Format(dateLayout),
		StockOuts: make([]StockOutEntry, 0, len(entries)),
		Summary:   DailyStockOutSummary{TotalValue: decimal.Zero},
	}
	for i := range entries {
		entry := &entries[i]
		report.StockOuts = append(report.StockOuts, StockOutEntry{
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
		})
		report.Summary.TotalEntries++
		report.Summary.TotalQuantity += entry.Quantity
		report.Summary.TotalValue = report.Summary.TotalValue.Add(entry.TotalPrice)
	}
	return report, nil
}

func (s *service) DailyStockStatus(ctx context.Context, day time.Time) (*DailyStockStatusReport, error) {
	cutoff := day.Truncate(24 * time.Hour).Add(24 * time.Hour)

	rows, err := s.repo.PartMovementTotalsBefore(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "query part movement totals")
	}

	report := &DailyStockStatusReport{
		Date:        day.Truncate(24 * time.Hour).Format(dateLayout),
		StockStatus: make([]PartStatus, 0, len(rows)),
	}
	for _, row := range rows {
		remaining := row.StockInTotal - row.StockOutTotal
		report.StockStatus = append(report.StockStatus, PartStatus{
			ID:                row.ID,
			Name:              row.Name,
			Category:          row.Category,
			TotalStockIn:      row.StockInTotal,
			TotalStockOut:     row.StockOutTotal,
			RemainingQuantity: remaining,
			CurrentStock:      row.Quantity,
		})
		report.Summary.TotalSpareParts++
		report.Summary.TotalStockIn += row.StockInTotal
		report.Summary.TotalStockOut += row.StockOutTotal
		report.Summary.TotalRemainingQuantity += remaining
	}
	return report, nil
}

func (s *service) StockMovementSummary(ctx context.Context, start, end time.Time) (*StockMovementSummaryReport, error) {
	from := start.Truncate(24 * time.Hour)
	to := end.Truncate(24 * time.Hour).Add(24 * time.Hour)
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date")
	}

	ins, err := s.repo.StockInsBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "query stock in entries")
	}
	outs, err := s.repo.StockOutsBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "query stock out entries")
	}

	inByPart := make(map[uuid.UUID]*PartStockInSummary)
	for i := range ins {
		entry := &ins[i]
		summary, ok := inByPart[entry.SparePartID]
		if !ok {
			summary = &PartStockInSummary{
				SparePartID: entry.SparePartID,
				SparePart: PartSummary{
					Name:     entry.SparePart.Name,
					Category: entry.SparePart.Category,
				},
			}
			inByPart[entry.SparePartID] = summary
		}
		summary.TotalQuantity += entry.Quantity
		summary.TotalEntries++
	}

	outByPart := make(map[uuid.UUID]*PartStockOutSummary)
	for i := range outs {
		entry := &outs[i]
		summary, ok := outByPart[entry.SparePartID]
		if !ok {
			summary = &PartStockOutSummary{
				SparePartID: entry.SparePartID,
				SparePart: PartSummary{
					Name:     entry.SparePart.Name,
					Category: entry.SparePart.Category,
				},
				TotalValue: decimal.Zero,
			}
			outByPart[entry.SparePartID] = summary
		}
		summary.TotalQuantity += entry.Quantity
		summary.TotalValue = summary.TotalValue.Add(entry.TotalPrice)
		summary.TotalEntries++
	}

	report := &StockMovementSummaryReport{
		Period: ReportPeriod{
			StartDate: from.Format(dateLayout),
			EndDate:   end.Truncate(24 * time.Hour).Format(dateLayout),
		},
		StockInSummary:  make([]PartStockInSummary, 0, len(inByPart)),
		StockOutSummary: make([]PartStockOutSummary, 0, len(outByPart)),
	}
	for _, summary := range inByPart {
		report.StockInSummary = append(report.StockInSummary, *summary)
	}
	for _, summary := range outByPart {
		report.StockOutSummary = append(report.StockOutSummary, *summary)
	}
	sort.Slice(report.StockInSummary, func(i, j int) bool {
		return report.StockInSummary[i].SparePart.Name < report.StockInSummary[j].SparePart.Name
	})
	sort.Slice(report.StockOutSummary, func(i, j int) bool {
		return report.StockOutSummary[i].SparePart.Name < report.StockOutSummary[j].SparePart.Name
	})
	return report, nil
}
