package legacy

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

func loadingFixture(records int) (*domain.ProcessedReportData, *domain.ReportConfig) {
	config := &domain.ReportConfig{
		ID:   "order-loading-report",
		Name: "Order Loading Report",
	}

	rows := make([]domain.Record, 0, records)
	for i := 0; i < records; i++ {
		action := "load"
		if i%3 == 0 {
			action = "unload"
		}
		rows = append(rows, domain.Record{
			"action_time":  time.Date(2025, 1, 10, 8, i%60, 0, 0, time.UTC),
			"order_ref":    "280481",
			"pallet_num":   "100125/2",
			"product_code": "MEP9090",
			"quantity":     50.0,
			"action_type":  action,
			"action_by":    "loader1",
		})
	}

	data := &domain.ProcessedReportData{
		Metadata: domain.ReportMetadata{
			ReportID:       "order-loading-report",
			ReportName:     "Order Loading Report",
			GeneratedAt:    time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC),
			AppliedFilters: domain.FilterValues{"dateRange": "2025-01-01|2025-01-20"},
			TotalRecords:   records,
		},
		Sections: map[string][]domain.Record{"loading_records": rows},
		Summary: map[string]any{
			"total_actions":  records,
			"load_actions":   records - records/3,
			"unload_actions": records / 3,
			"net_loaded":     1000.0,
			"unique_orders":  1,
		},
	}
	return data, config
}

func TestOrderLoadingRenderer_ReportID(t *testing.T) {
	assert.Equal(t, "order-loading-report", NewOrderLoadingRenderer().ReportID())
}

func TestOrderLoadingRenderer_Render(t *testing.T) {
	data, config := loadingFixture(8)

	raw, err := NewOrderLoadingRenderer().Render(data, config)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestOrderLoadingRenderer_ManyRecordsPaginate(t *testing.T) {
	data, config := loadingFixture(150)

	raw, err := NewOrderLoadingRenderer().Render(data, config)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestOrderLoadingRenderer_NoRecords(t *testing.T) {
	data, config := loadingFixture(0)

	raw, err := NewOrderLoadingRenderer().Render(data, config)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
