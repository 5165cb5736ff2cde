// Package warehouse implements the report data sources over the warehouse
// store, together with the shipped report configurations binding them.
package warehouse

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/newpennine/report-engine/pkg/models/domain"
	modelstore "github.com/newpennine/report-engine/pkg/models/store"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// highVarianceThreshold is the |variance %| above which a count is flagged.
const highVarianceThreshold = 10.0

// StockTakeDetailsSource produces one row per counted product for a stock
// take date: counted quantity, variance against the system stock level and
// a Counted/Not Counted status. Rows honour the productCode, minVariance
// and countStatus filters and are sorted by |variance %| descending.
type StockTakeDetailsSource struct {
	store warehouse.Store
}

func NewStockTakeDetailsSource(store warehouse.Store) *StockTakeDetailsSource {
	return &StockTakeDetailsSource{store: store}
}

func (s *StockTakeDetailsSource) ID() string { return "stock_take_details" }

func (s *StockTakeDetailsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	day, ok := filters.Date("stockTakeDate")
	if !ok {
		return nil, fmt.Errorf("stock take date is required")
	}

	counts, err := s.store.StockTakeRecords(ctx, day)
	if err != nil {
		return nil, err
	}
	levels, err := s.store.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	stockByProduct := make(map[string]modelstore.StockLevel, len(levels))
	for _, level := range levels {
		stockByProduct[level.ProductCode] = level
	}

	records := make([]domain.Record, 0)
	for productCode, items := range groupByProduct(counts) {
		level := stockByProduct[productCode]
		systemStock := level.StockLevel
		countedQty := countedQuantity(items)
		variance := countedQty - systemStock

		variancePct := 0.0
		if systemStock > 0 {
			variancePct = variance / systemStock * 100
		}

		status := "Not Counted"
		if countedQty > 0 {
			status = "Counted"
		}

		palletCount := 0
		var lastUpdated time.Time
		for _, item := range items {
			if item.PalletNum != "" {
				palletCount++
			}
			if item.CountTime.After(lastUpdated) {
				lastUpdated = item.CountTime
			}
		}

		if !includeStockTakeRow(productCode, variancePct, countedQty, filters) {
			continue
		}

		records = append(records, domain.Record{
			"product_code": productCode,
			"description":  level.Description,
			"system_stock": systemStock,
			"counted_qty":  countedQty,
			"variance":     variance,
			"variance_pct": variancePct,
			"pallet_count": float64(palletCount),
			"status":       status,
			"last_updated": lastUpdated,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return math.Abs(records[i]["variance_pct"].(float64)) > math.Abs(records[j]["variance_pct"].(float64))
	})
	return records, nil
}

// NotCountedSource lists every product holding positive system stock with
// no count record on the stock take date, sorted by system stock
// descending.
type NotCountedSource struct {
	store warehouse.Store
}

func NewNotCountedSource(store warehouse.Store) *NotCountedSource {
	return &NotCountedSource{store: store}
}

func (s *NotCountedSource) ID() string { return "not_counted_items" }

func (s *NotCountedSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	day, ok := filters.Date("stockTakeDate")
	if !ok {
		return nil, fmt.Errorf("stock take date is required")
	}

	counts, err := s.store.StockTakeRecords(ctx, day)
	if err != nil {
		return nil, err
	}
	levels, err := s.store.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	counted := make(map[string]struct{}, len(counts))
	for _, c := range counts {
		counted[c.ProductCode] = struct{}{}
	}

	records := make([]domain.Record, 0)
	for _, level := range levels {
		if _, ok := counted[level.ProductCode]; ok || level.StockLevel <= 0 {
			continue
		}
		records = append(records, domain.Record{
			"product_code": level.ProductCode,
			"description":  level.Description,
			"system_stock": level.StockLevel,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i]["system_stock"].(float64) > records[j]["system_stock"].(float64)
	})
	return records, nil
}

// StockTakeSummarySource feeds the summary section: one row per product
// known to stock_level, carrying counted quantity and variance. The
// summary aggregation reduces these rows into the headline figures.
type StockTakeSummarySource struct {
	store warehouse.Store
}

func NewStockTakeSummarySource(store warehouse.Store) *StockTakeSummarySource {
	return &StockTakeSummarySource{store: store}
}

func (s *StockTakeSummarySource) ID() string { return "stock_take_summary" }

func (s *StockTakeSummarySource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	day, ok := filters.Date("stockTakeDate")
	if !ok {
		return nil, fmt.Errorf("stock take date is required")
	}

	counts, err := s.store.StockTakeRecords(ctx, day)
	if err != nil {
		return nil, err
	}
	levels, err := s.store.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	countedByProduct := make(map[string]float64)
	for productCode, items := range groupByProduct(counts) {
		countedByProduct[productCode] = countedQuantity(items)
	}

	records := make([]domain.Record, 0, len(levels))
	for _, level := range levels {
		countedQty := countedByProduct[level.ProductCode]
		variance := countedQty - level.StockLevel
		variancePct := 0.0
		if level.StockLevel > 0 {
			variancePct = math.Abs(variance/level.StockLevel) * 100
		}
		records = append(records, domain.Record{
			"product_code": level.ProductCode,
			"counted_qty":  countedQty,
			"variance":     variance,
			"variance_pct": variancePct,
		})
	}
	return records, nil
}

// stockTakeCalculators are the custom summary computations of the stock
// take report.
func stockTakeCalculators() report.Calculators {
	return report.Calculators{
		"counted_products": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			counted := 0
			for _, r := range records {
				if qty, ok := r["counted_qty"].(float64); ok && qty > 0 {
					counted++
				}
			}
			return counted, nil
		},
		"completion_rate": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			if len(records) == 0 {
				return 0.0, nil
			}
			counted := 0
			for _, r := range records {
				if qty, ok := r["counted_qty"].(float64); ok && qty > 0 {
					counted++
				}
			}
			return float64(counted) / float64(len(records)) * 100, nil
		},
		"high_variance_count": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			high := 0
			for _, r := range records {
				if pct, ok := r["variance_pct"].(float64); ok && math.Abs(pct) > highVarianceThreshold {
					high++
				}
			}
			return high, nil
		},
	}
}

func groupByProduct(records []modelstore.StockTakeRecord) map[string][]modelstore.StockTakeRecord {
	groups := make(map[string][]modelstore.StockTakeRecord)
	for _, r := range records {
		groups[r.ProductCode] = append(groups[r.ProductCode], r)
	}
	return groups
}

// countedQuantity totals a product's counted quantity. Initial records
// created without a pallet number contribute their system quantity.
func countedQuantity(items []modelstore.StockTakeRecord) float64 {
	var total float64
	for _, item := range items {
		if item.PalletNum == "" {
			total += item.SystemQty
		} else {
			total += item.CountedQty
		}
	}
	return total
}

func includeStockTakeRow(productCode string, variancePct, countedQty float64, filters domain.FilterValues) bool {
	if code := filters.String("productCode"); code != "" && !strings.Contains(productCode, code) {
		return false
	}
	if min, ok := filters.Number("minVariance"); ok && min > 0 && math.Abs(variancePct) < min {
		return false
	}
	switch filters.String("countStatus") {
	case "counted":
		return countedQty > 0
	case "not_counted":
		return countedQty == 0
	case "high_variance":
		return math.Abs(variancePct) > highVarianceThreshold
	}
	return true
}
