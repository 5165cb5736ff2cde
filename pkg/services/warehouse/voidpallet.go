package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/newpennine/report-engine/pkg/models/domain"
	modelstore "github.com/newpennine/report-engine/pkg/models/store"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// VoidRecordsSource fetches void records for a date range, joined to their
// pallet info. The transform computes the effective voided quantity: the
// damage quantity for partial voids, the full pallet quantity otherwise.
type VoidRecordsSource struct {
	store warehouse.Store
}

func NewVoidRecordsSource(store warehouse.Store) *VoidRecordsSource {
	return &VoidRecordsSource{store: store}
}

func (s *VoidRecordsSource) ID() string { return "void_records" }

func (s *VoidRecordsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	start, end, ok := filters.DateRange("dateRange")
	if !ok {
		return nil, fmt.Errorf("date range is required")
	}

	voids, err := s.store.VoidRecords(ctx, start, end, filters.String("voidReason"))
	if err != nil {
		return nil, err
	}

	productFilter := filters.String("productCode")

	records := make([]domain.Record, 0, len(voids))
	for _, v := range voids {
		if productFilter != "" && !strings.Contains(v.ProductCode.String, productFilter) {
			continue
		}
		records = append(records, voidRecordToRow(v))
	}
	return records, nil
}

// Transform computes void_qty for every row.
func (s *VoidRecordsSource) Transform(records []domain.Record) ([]domain.Record, error) {
	for _, r := range records {
		damage, _ := r["damage_qty"].(float64)
		if damage > 0 {
			r["void_qty"] = damage
		} else {
			qty, _ := r["product_qty"].(float64)
			r["void_qty"] = qty
		}
	}
	return records, nil
}

func voidRecordToRow(v modelstore.VoidRecord) domain.Record {
	r := domain.Record{
		"uuid":    v.UUID,
		"plt_num": v.PalletNum,
		"time":    v.Time,
		"reason":  v.Reason,
	}
	if v.DamageQty.Valid {
		r["damage_qty"] = v.DamageQty.Float64
	}
	if v.ProductCode.Valid {
		r["product_code"] = v.ProductCode.String
	}
	if v.ProductQty.Valid {
		r["product_qty"] = v.ProductQty.Float64
	}
	if v.UserName.Valid {
		r["user_name"] = v.UserName.String
	}
	if v.PalletLoc.Valid {
		r["plt_loc"] = v.PalletLoc.String
	}
	return r
}

// voidPalletCalculators are the custom summary computations of the void
// pallet report.
func voidPalletCalculators() report.Calculators {
	return report.Calculators{
		"damage_voids": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			count := 0
			for _, r := range records {
				if damage, ok := r["damage_qty"].(float64); ok && damage > 0 {
					count++
				}
			}
			return count, nil
		},
		"full_voids": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			count := 0
			for _, r := range records {
				if damage, ok := r["damage_qty"].(float64); !ok || damage == 0 {
					count++
				}
			}
			return count, nil
		},
		"unique_products": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			products := make(map[string]struct{})
			for _, r := range records {
				if code, ok := r["product_code"].(string); ok && code != "" {
					products[code] = struct{}{}
				}
			}
			return len(products), nil
		},
	}
}
