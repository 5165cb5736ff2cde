package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// recordingRenderer stands in for a legacy layout and notes whether it ran.
type recordingRenderer struct {
	id     string
	called bool
}

func (r *recordingRenderer) ReportID() string { return r.id }

func (r *recordingRenderer) Render(*domain.ProcessedReportData, *domain.ReportConfig) ([]byte, error) {
	r.called = true
	return []byte("%PDF-legacy"), nil
}

func documentFixture() (*domain.ProcessedReportData, *domain.ReportConfig) {
	config := &domain.ReportConfig{
		ID:   "transaction-report",
		Name: "Transaction Report",
		Sections: []domain.SectionDescriptor{
			{
				ID:         "summary",
				Title:      "Summary",
				Type:       domain.SectionTypeSummary,
				DataSource: "transfer_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "total_transfers", Label: "Total Transfers", Kind: domain.AggregateCount},
				},
			},
			{
				ID:         "transfers",
				Title:      "Transfers",
				Type:       domain.SectionTypeTable,
				DataSource: "transfer_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "plt_num", Label: "Pallet No.", Type: domain.ColumnTypeString},
					{ID: "quantity", Label: "Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "remark", Label: "Remark", Type: domain.ColumnTypeString, ExportOnly: true},
				},
			},
		},
	}
	data := &domain.ProcessedReportData{
		Metadata: domain.ReportMetadata{
			ReportID:       "transaction-report",
			ReportName:     "Transaction Report",
			GeneratedAt:    time.Date(2025, 1, 20, 16, 0, 0, 0, time.UTC),
			AppliedFilters: domain.FilterValues{"dateRange": "2025-01-01|2025-01-20"},
			TotalRecords:   1,
		},
		Sections: map[string][]domain.Record{
			"transfers": {
				{"plt_num": "200125/1", "quantity": 48.0, "remark": "hidden in pdf"},
			},
		},
		Summary: map[string]any{"total_transfers": 1},
	}
	return data, config
}

func TestDocumentGenerator_Generate(t *testing.T) {
	data, config := documentFixture()

	payload, err := NewDocumentGenerator().Generate(data, config)
	require.NoError(t, err)

	assert.Equal(t, MIMEDocument, payload.MIME)
	assert.Equal(t, "transaction-report_2025-01-20.pdf", payload.Filename)
	assert.True(t, bytes.HasPrefix(payload.Data, []byte("%PDF")), "payload must be a PDF document")
}

func TestDocumentGenerator_LegacyDispatch(t *testing.T) {
	tests := []struct {
		name         string
		reportID     string
		legacyLayout bool
		wantLegacy   bool
	}{
		{
			name:         "legacy layout flag routes to registered renderer",
			reportID:     "void-pallet-report",
			legacyLayout: true,
			wantLegacy:   true,
		},
		{
			name:         "no flag keeps the generic layout",
			reportID:     "void-pallet-report",
			legacyLayout: false,
			wantLegacy:   false,
		},
		{
			name:         "flag without a registered renderer falls back",
			reportID:     "unknown-report",
			legacyLayout: true,
			wantLegacy:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := &recordingRenderer{id: "void-pallet-report"}
			generator := NewDocumentGenerator(renderer)

			data, config := documentFixture()
			config.ID = tt.reportID
			if tt.legacyLayout {
				config.StyleOverrides = map[domain.Format]domain.StyleOverride{
					domain.FormatDocument: {LegacyLayout: true},
				}
			}

			payload, err := generator.Generate(data, config)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLegacy, renderer.called)
			assert.True(t, bytes.HasPrefix(payload.Data, []byte("%PDF")))
		})
	}
}

func TestDocumentGenerator_ManyRowsPaginate(t *testing.T) {
	data, config := documentFixture()

	records := make([]domain.Record, 80)
	for i := range records {
		records[i] = domain.Record{"plt_num": "200125/1", "quantity": float64(i)}
	}
	data.Sections["transfers"] = records
	data.Metadata.TotalRecords = len(records)

	payload, err := NewDocumentGenerator().Generate(data, config)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.Data)
}

func TestColumnWidths(t *testing.T) {
	cols := []domain.ColumnDescriptor{
		{ID: "a", Width: 40},
		{ID: "b"},
		{ID: "c"},
	}

	widths := columnWidths(cols, 180)
	assert.Equal(t, 40.0, widths[0])
	assert.Equal(t, 70.0, widths[1])
	assert.Equal(t, 70.0, widths[2])
}

func TestAlign(t *testing.T) {
	assert.Equal(t, "R", align("right"))
	assert.Equal(t, "C", align("center"))
	assert.Equal(t, "L", align(""))
	assert.Equal(t, "L", align("left"))
}
