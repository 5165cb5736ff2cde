package warehouse

import (
	"context"
	"fmt"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// TransferRecordsSource fetches pallet movements for a date range.
type TransferRecordsSource struct {
	store warehouse.Store
}

func NewTransferRecordsSource(store warehouse.Store) *TransferRecordsSource {
	return &TransferRecordsSource{store: store}
}

func (s *TransferRecordsSource) ID() string { return "transfer_records" }

func (s *TransferRecordsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	start, end, ok := filters.DateRange("dateRange")
	if !ok {
		return nil, fmt.Errorf("date range is required")
	}

	rows, err := s.store.TransferRecords(ctx, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		r := domain.Record{
			"uuid":        row.UUID,
			"plt_num":     row.PalletNum,
			"from_loc":    row.FromLoc,
			"to_loc":      row.ToLoc,
			"transfer_at": row.TransferAt,
		}
		if row.ProductCode.Valid {
			r["product_code"] = row.ProductCode.String
		}
		if row.Quantity.Valid {
			r["quantity"] = row.Quantity.Float64
		}
		if row.Operator.Valid {
			r["operator"] = row.Operator.String
		}
		records = append(records, r)
	}
	return records, nil
}
