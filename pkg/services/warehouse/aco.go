package warehouse

import (
	"context"
	"fmt"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// AcoProgressSource reports per-product production progress of one ACO
// order: required quantity, quantity produced onto pallets, the remaining
// balance and the pallet count.
type AcoProgressSource struct {
	store warehouse.Store
}

func NewAcoProgressSource(store warehouse.Store) *AcoProgressSource {
	return &AcoProgressSource{store: store}
}

func (s *AcoProgressSource) ID() string { return "aco_order_progress" }

func (s *AcoProgressSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	ref, ok := filters.Number("orderRef")
	if !ok {
		return nil, fmt.Errorf("order reference is required")
	}

	order, err := s.store.AcoOrder(ctx, int64(ref))
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(order))
	for _, line := range order {
		codes = append(codes, line.ProductCode)
	}
	pallets, err := s.store.AcoPallets(ctx, int64(ref), codes)
	if err != nil {
		return nil, err
	}

	type progress struct {
		produced float64
		pallets  int
	}
	byProduct := make(map[string]*progress)
	for _, p := range pallets {
		prog, ok := byProduct[p.ProductCode]
		if !ok {
			prog = &progress{}
			byProduct[p.ProductCode] = prog
		}
		prog.produced += p.ProductQty
		prog.pallets++
	}

	records := make([]domain.Record, 0, len(order))
	for _, line := range order {
		required := line.RequiredQty.Float64
		prog := byProduct[line.ProductCode]
		var produced float64
		palletCount := 0
		if prog != nil {
			produced = prog.produced
			palletCount = prog.pallets
		}
		records = append(records, domain.Record{
			"product_code": line.ProductCode,
			"required_qty": required,
			"produced_qty": produced,
			"remaining":    required - produced,
			"pallet_count": float64(palletCount),
		})
	}
	return records, nil
}
