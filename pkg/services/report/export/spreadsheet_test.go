package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

func spreadsheetFixture() (*domain.ProcessedReportData, *domain.ReportConfig) {
	config := &domain.ReportConfig{
		ID:   "grn-report",
		Name: "GRN Report",
		Sections: []domain.SectionDescriptor{
			{
				ID:         "totals",
				Title:      "Totals",
				Type:       domain.SectionTypeSummary,
				DataSource: "grn_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "line_count", Label: "Receipt Lines", Kind: domain.AggregateCount},
					{ID: "net_weight", Label: "Total Net Weight", Kind: domain.AggregateSum, Field: "net_weight"},
				},
			},
			{
				ID:         "receipts",
				Title:      "Receipts",
				Type:       domain.SectionTypeTable,
				DataSource: "grn_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "material_code", Label: "Material", Type: domain.ColumnTypeString},
					{ID: "net_weight", Label: "Net Weight", Type: domain.ColumnTypeNumber},
					{ID: "received_at", Label: "Received", Type: domain.ColumnTypeDate},
				},
			},
		},
	}
	data := &domain.ProcessedReportData{
		Metadata: domain.ReportMetadata{
			ReportID:       "grn-report",
			ReportName:     "GRN Report",
			GeneratedAt:    time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
			AppliedFilters: domain.FilterValues{"grnRef": 800123},
			TotalRecords:   2,
		},
		Sections: map[string][]domain.Record{
			"receipts": {
				{"material_code": "MHL101", "net_weight": 750.0, "received_at": time.Date(2025, 2, 1, 7, 30, 0, 0, time.UTC)},
				{"material_code": "MHL102", "net_weight": 1250.0, "received_at": time.Date(2025, 2, 1, 7, 45, 0, 0, time.UTC)},
			},
		},
		Summary: map[string]any{
			"line_count": 2,
			"net_weight": 2000.0,
		},
	}
	return data, config
}

func TestSpreadsheetGenerator_Generate(t *testing.T) {
	data, config := spreadsheetFixture()

	payload, err := NewSpreadsheetGenerator().Generate(data, config)
	require.NoError(t, err)

	assert.Equal(t, MIMESpreadsheet, payload.MIME)
	assert.Equal(t, "grn-report_2025-02-01.xlsx", payload.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Info", "Summary", "Receipts"}, f.GetSheetList())

	// Info sheet carries the generation metadata.
	name, err := f.GetCellValue("Info", "B1")
	require.NoError(t, err)
	assert.Equal(t, "GRN Report", name)
	total, err := f.GetCellValue("Info", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	// Summary sheet lists the computed fields in declaration order.
	label, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Receipt Lines", label)

	// Table sheet: header row then typed data rows.
	header, err := f.GetCellValue("Receipts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Material", header)
	material, err := f.GetCellValue("Receipts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MHL101", material)

	rows, err := f.GetRows("Receipts")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSpreadsheetGenerator_NoSummarySheetWithoutSummary(t *testing.T) {
	data, config := spreadsheetFixture()
	data.Summary = nil

	payload, err := NewSpreadsheetGenerator().Generate(data, config)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Summary")
}

func TestSpreadsheetGenerator_SkipsSuppressedSections(t *testing.T) {
	data, config := spreadsheetFixture()
	config.Sections[1].SuppressIn = []domain.Format{domain.FormatSpreadsheet}

	payload, err := NewSpreadsheetGenerator().Generate(data, config)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Receipts")
}

func TestSheetName(t *testing.T) {
	used := make(map[string]bool)
	assert.Equal(t, "Receipts", sheetName("Receipts", used))

	long := "An Extremely Long Section Title That Overflows"
	first := sheetName(long, used)
	assert.Len(t, first, maxSheetNameLen)

	// A second title with the same 31-char prefix must not collide.
	second := sheetName(long+" Again", used)
	assert.NotEqual(t, first, second)
	assert.Equal(t, first[:maxSheetNameLen-2]+" 2", second)

	// Truncation counts runes, not bytes.
	wide := "盤點結果明細盤點結果明細盤點結果明細盤點結果明細盤點結果明細盤點結果明細"
	name := sheetName(wide, used)
	assert.Equal(t, maxSheetNameLen, len([]rune(name)))
	assert.Equal(t, string([]rune(wide)[:maxSheetNameLen]), name)
}

func TestSpreadsheetGenerator_DuplicateTruncatedTitles(t *testing.T) {
	data, config := spreadsheetFixture()
	long := "Receipts Broken Down By Supplier And Material"
	config.Sections[1].Title = long
	config.Sections = append(config.Sections, domain.SectionDescriptor{
		ID:         "receipts_weekly",
		Title:      long + " Weekly",
		Type:       domain.SectionTypeTable,
		DataSource: "grn_records",
		Columns: []domain.ColumnDescriptor{
			{ID: "material_code", Label: "Material", Type: domain.ColumnTypeString},
		},
	})
	data.Sections["receipts_weekly"] = []domain.Record{{"material_code": "MHL900"}}

	payload, err := NewSpreadsheetGenerator().Generate(data, config)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	require.NoError(t, err)
	defer f.Close()

	// Both long-titled sections land on distinct sheets.
	require.Len(t, f.GetSheetList(), 4)
	value, err := f.GetCellValue(long[:maxSheetNameLen-2]+" 2", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MHL900", value)
}
