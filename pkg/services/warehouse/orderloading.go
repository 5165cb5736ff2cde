package warehouse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// LoadingRecordsSource fetches order loading history for a date range with
// optional order/product/user/action filters.
type LoadingRecordsSource struct {
	store warehouse.Store
}

func NewLoadingRecordsSource(store warehouse.Store) *LoadingRecordsSource {
	return &LoadingRecordsSource{store: store}
}

func (s *LoadingRecordsSource) ID() string { return "loading_records" }

func (s *LoadingRecordsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	start, end, ok := filters.DateRange("dateRange")
	if !ok {
		return nil, fmt.Errorf("date range is required")
	}

	rows, err := s.store.LoadingRecords(ctx, start, end, filters.String("orderRef"))
	if err != nil {
		return nil, err
	}

	productFilter := filters.String("productCode")
	userFilter := filters.String("actionBy")
	actionFilter := filters.String("actionType")

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		if productFilter != "" && !strings.Contains(row.ProductCode, productFilter) {
			continue
		}
		if userFilter != "" && !strings.Contains(row.ActionBy, userFilter) {
			continue
		}
		if actionFilter != "" && row.ActionType != actionFilter {
			continue
		}
		records = append(records, domain.Record{
			"uuid":         row.UUID,
			"order_ref":    row.OrderRef,
			"pallet_num":   row.PalletNum,
			"product_code": row.ProductCode,
			"quantity":     row.Quantity,
			"action_type":  row.ActionType,
			"action_by":    row.ActionBy,
			"action_time":  row.ActionTime,
			"remark":       row.Remark.String,
		})
	}
	return records, nil
}

// LoadingUserStatsSource aggregates loading activity per operator: load and
// unload action counts and net quantity, sorted by net quantity descending.
type LoadingUserStatsSource struct {
	records *LoadingRecordsSource
}

func NewLoadingUserStatsSource(store warehouse.Store) *LoadingUserStatsSource {
	return &LoadingUserStatsSource{records: NewLoadingRecordsSource(store)}
}

func (s *LoadingUserStatsSource) ID() string { return "loading_user_stats" }

func (s *LoadingUserStatsSource) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	rows, err := s.records.Fetch(ctx, filters)
	if err != nil {
		return nil, err
	}

	type userTotals struct {
		loads    int
		unloads  int
		quantity float64
	}
	byUser := make(map[string]*userTotals)
	for _, r := range rows {
		user, _ := r["action_by"].(string)
		totals, ok := byUser[user]
		if !ok {
			totals = &userTotals{}
			byUser[user] = totals
		}
		qty, _ := r["quantity"].(float64)
		if action, _ := r["action_type"].(string); action == "unload" {
			totals.unloads++
			totals.quantity -= qty
		} else {
			totals.loads++
			totals.quantity += qty
		}
	}

	records := make([]domain.Record, 0, len(byUser))
	for user, totals := range byUser {
		records = append(records, domain.Record{
			"user_name":    user,
			"load_count":   float64(totals.loads),
			"unload_count": float64(totals.unloads),
			"net_quantity": totals.quantity,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i]["net_quantity"].(float64) > records[j]["net_quantity"].(float64)
	})
	return records, nil
}

// orderLoadingCalculators are the custom summary computations of the order
// loading report.
func orderLoadingCalculators() report.Calculators {
	countByAction := func(action string) report.Calculator {
		return func(records []domain.Record, _ domain.FilterValues) (any, error) {
			count := 0
			for _, r := range records {
				if a, _ := r["action_type"].(string); a == action {
					count++
				}
			}
			return count, nil
		}
	}
	return report.Calculators{
		"load_actions":   countByAction("load"),
		"unload_actions": countByAction("unload"),
		"net_loaded": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			var net float64
			for _, r := range records {
				qty, _ := r["quantity"].(float64)
				if action, _ := r["action_type"].(string); action == "unload" {
					net -= qty
				} else {
					net += qty
				}
			}
			return net, nil
		},
		"unique_orders": func(records []domain.Record, _ domain.FilterValues) (any, error) {
			orders := make(map[string]struct{})
			for _, r := range records {
				if ref, ok := r["order_ref"].(string); ok {
					orders[ref] = struct{}{}
				}
			}
			return len(orders), nil
		},
	}
}
