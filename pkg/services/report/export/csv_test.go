package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

func csvFixture() (*domain.ProcessedReportData, *domain.ReportConfig) {
	config := &domain.ReportConfig{
		ID:   "stock-take-report",
		Name: "Stock Take Report",
		Sections: []domain.SectionDescriptor{
			{
				ID:    "details",
				Title: "Count Details",
				Type:  domain.SectionTypeTable,
				Columns: []domain.ColumnDescriptor{
					{ID: "product_code", Label: "Product Code", Type: domain.ColumnTypeString},
					{ID: "counted_qty", Label: "Counted Qty", Type: domain.ColumnTypeNumber},
					{ID: "variance_pct", Label: "Variance %", Type: domain.ColumnTypePercent},
				},
			},
		},
	}
	data := &domain.ProcessedReportData{
		Metadata: domain.ReportMetadata{
			ReportID:       "stock-take-report",
			ReportName:     "Stock Take Report",
			GeneratedAt:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			AppliedFilters: domain.FilterValues{"stockTakeDate": "2025-01-15"},
			TotalRecords:   3,
		},
		Sections: map[string][]domain.Record{
			"details": {
				{"product_code": "MEP9090", "counted_qty": 120.0, "variance_pct": 4.5},
				{"product_code": `SA40,10"`, "counted_qty": 55.0, "variance_pct": -12.0},
				{"product_code": "PT10\n(obsolete)", "counted_qty": 8.0, "variance_pct": 2.0},
			},
		},
	}
	return data, config
}

func TestCSVGenerator_Generate(t *testing.T) {
	data, config := csvFixture()

	payload, err := NewCSVGenerator().Generate(data, config)
	require.NoError(t, err)

	assert.Equal(t, MIMEText, payload.MIME)
	assert.Equal(t, "stock-take-report_2025-01-15.csv", payload.Filename)
	assert.True(t, bytes.HasPrefix(payload.Data, utf8BOM), "payload must start with a UTF-8 BOM")

	// The body after the BOM must re-parse as CSV with values intact:
	// the comma and quote in the second product code and the newline in
	// the third.
	reader := csv.NewReader(bytes.NewReader(payload.Data[len(utf8BOM):]))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Stock Take Report"}, rows[0])
	assert.Equal(t, []string{"Filters", "stockTakeDate: 2025-01-15"}, rows[1])
	assert.Equal(t, []string{""}, rows[2])
	assert.Equal(t, []string{"Count Details"}, rows[3])
	assert.Equal(t, []string{"Product Code", "Counted Qty", "Variance %"}, rows[4])
	assert.Equal(t, []string{"MEP9090", "120", "4.5%"}, rows[5])
	assert.Equal(t, []string{`SA40,10"`, "55", "-12.0%"}, rows[6])
	assert.Equal(t, []string{"PT10\n(obsolete)", "8", "2.0%"}, rows[7])
}

func TestCSVGenerator_SkipsSuppressedSections(t *testing.T) {
	data, config := csvFixture()
	config.Sections = append(config.Sections, domain.SectionDescriptor{
		ID:         "extras",
		Title:      "Hidden In Text",
		Type:       domain.SectionTypeTable,
		SuppressIn: []domain.Format{domain.FormatText},
		Columns: []domain.ColumnDescriptor{
			{ID: "x", Label: "X", Type: domain.ColumnTypeString},
		},
	})
	data.Sections["extras"] = []domain.Record{{"x": "should not appear"}}

	payload, err := NewCSVGenerator().Generate(data, config)
	require.NoError(t, err)
	assert.NotContains(t, string(payload.Data), "Hidden In Text")
	assert.NotContains(t, string(payload.Data), "should not appear")
}

func TestCSVGenerator_IncludesExportOnlyColumns(t *testing.T) {
	data, config := csvFixture()
	config.Sections[0].Columns = append(config.Sections[0].Columns, domain.ColumnDescriptor{
		ID: "pallet_count", Label: "Pallets", Type: domain.ColumnTypeNumber, ExportOnly: true,
	})
	data.Sections["details"][0]["pallet_count"] = 3.0

	payload, err := NewCSVGenerator().Generate(data, config)
	require.NoError(t, err)
	assert.Contains(t, string(payload.Data), "Pallets")
}

func TestCSVGenerator_EmptySection(t *testing.T) {
	data, config := csvFixture()
	data.Sections["details"] = nil

	payload, err := NewCSVGenerator().Generate(data, config)
	require.NoError(t, err)

	// Title and header still render so the file shape is predictable.
	assert.Contains(t, string(payload.Data), "Count Details")
	assert.Contains(t, string(payload.Data), "Product Code")
}

func TestFilename(t *testing.T) {
	generated := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "grn-report_2025-03-02.xlsx", Filename("grn-report", generated, "xlsx"))
}

func TestCellValue(t *testing.T) {
	when := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		col      domain.ColumnDescriptor
		record   domain.Record
		expected string
	}{
		{
			name:     "missing value",
			col:      domain.ColumnDescriptor{ID: "x", Type: domain.ColumnTypeString},
			record:   domain.Record{},
			expected: "",
		},
		{
			name:     "date with custom layout",
			col:      domain.ColumnDescriptor{ID: "t", Type: domain.ColumnTypeDate, Format: "02/01/2006 15:04"},
			record:   domain.Record{"t": when},
			expected: "15/01/2025 14:30",
		},
		{
			name:     "date default layout",
			col:      domain.ColumnDescriptor{ID: "t", Type: domain.ColumnTypeDate},
			record:   domain.Record{"t": when},
			expected: "2025-01-15",
		},
		{
			name:     "number trims trailing zeroes",
			col:      domain.ColumnDescriptor{ID: "n", Type: domain.ColumnTypeNumber},
			record:   domain.Record{"n": 120.0},
			expected: "120",
		},
		{
			name:     "currency",
			col:      domain.ColumnDescriptor{ID: "n", Type: domain.ColumnTypeCurrency},
			record:   domain.Record{"n": 5.5},
			expected: "5.50",
		},
		{
			name:     "percent",
			col:      domain.ColumnDescriptor{ID: "n", Type: domain.ColumnTypePercent},
			record:   domain.Record{"n": 12.34},
			expected: "12.3%",
		},
		{
			name:     "string passthrough",
			col:      domain.ColumnDescriptor{ID: "s", Type: domain.ColumnTypeString},
			record:   domain.Record{"s": "MEP9090"},
			expected: "MEP9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cellValue(&tt.col, tt.record))
		})
	}
}
