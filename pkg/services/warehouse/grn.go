package warehouse

import (
	"context"
	"fmt"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// GrnRecordsSource fetches the material receipts of one GRN reference.
// Validate rejects result sets with negative weights or a net weight above
// gross, which indicate a broken weighbridge import.
type GrnRecordsSource struct {
	store warehouse.Store
}

func NewGrnRecordsSource(store warehouse.Store) *GrnRecordsSource {
	return &GrnRecordsSource{store: store}
}

func (s *GrnRecordsSource) ID() string { return "grn_records" }

func (s *GrnRecordsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	ref, ok := filters.Number("grnRef")
	if !ok {
		return nil, fmt.Errorf("grn reference is required")
	}

	rows, err := s.store.GrnRecords(ctx, int64(ref))
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.Record{
			"grn_ref":       float64(row.GrnRef),
			"material_code": row.MaterialCode,
			"description":   row.Description.String,
			"sup_code":      row.SupCode,
			"supplier_name": row.SupplierName.String,
			"gross_weight":  row.GrossWeight,
			"net_weight":    row.NetWeight,
			"pallet_count":  row.PalletCount,
			"package_count": row.PackageCount,
			"received_at":   row.CreateTime,
		})
	}
	return records, nil
}

func (s *GrnRecordsSource) Validate(records []domain.Record) bool {
	for _, r := range records {
		gross, _ := r["gross_weight"].(float64)
		net, _ := r["net_weight"].(float64)
		if gross < 0 || net < 0 || net > gross {
			return false
		}
	}
	return true
}
