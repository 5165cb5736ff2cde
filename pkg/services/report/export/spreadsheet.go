package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// maxSheetNameLen is the xlsx sheet name limit.
const maxSheetNameLen = 31

// SpreadsheetGenerator renders one sheet per non-suppressed section plus an
// always-present Info sheet and, when summary fields exist, a Summary sheet.
type SpreadsheetGenerator struct{}

func NewSpreadsheetGenerator() *SpreadsheetGenerator { return &SpreadsheetGenerator{} }

func (g *SpreadsheetGenerator) Format() domain.Format { return domain.FormatSpreadsheet }

func (g *SpreadsheetGenerator) Generate(data *domain.ProcessedReportData, config *domain.ReportConfig) (*domain.Payload, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := g.writeInfoSheet(f, data, config); err != nil {
		return nil, err
	}
	if len(data.Summary) > 0 {
		if err := g.writeSummarySheet(f, data, config); err != nil {
			return nil, err
		}
	}

	usedSheets := make(map[string]bool)
	for i := range config.Sections {
		section := &config.Sections[i]
		if section.Type != domain.SectionTypeTable || section.SuppressedIn(domain.FormatSpreadsheet) {
			continue
		}
		if err := g.writeTableSheet(f, sheetName(section.Title, usedSheets), section, data.Sections[section.ID]); err != nil {
			return nil, err
		}
	}

	// the default sheet excelize creates is replaced by Info
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return &domain.Payload{
		Data:     buf.Bytes(),
		MIME:     MIMESpreadsheet,
		Filename: Filename(config.ID, data.Metadata.GeneratedAt, "xlsx"),
	}, nil
}

func (g *SpreadsheetGenerator) writeInfoSheet(f *excelize.File, data *domain.ProcessedReportData, config *domain.ReportConfig) error {
	const sheet = "Info"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	rows := [][]any{
		{"Report", config.Name},
		{"Report ID", config.ID},
		{"Generated", data.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Records", data.Metadata.TotalRecords},
	}
	for _, line := range appliedFilters(&data.Metadata) {
		rows = append(rows, []any{"Filter", line})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write info row: %w", err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 18)
}

func (g *SpreadsheetGenerator) writeSummarySheet(f *excelize.File, data *domain.ProcessedReportData, config *domain.ReportConfig) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	row := 1
	for _, section := range config.Sections {
		if section.Type != domain.SectionTypeSummary {
			continue
		}
		for _, field := range section.SummaryFields {
			value, ok := data.Summary[field.ID]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			line := []any{field.Label, value}
			if err := f.SetSheetRow(sheet, cell, &line); err != nil {
				return fmt.Errorf("failed to write summary row: %w", err)
			}
			row++
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func (g *SpreadsheetGenerator) writeTableSheet(f *excelize.File, sheet string, section *domain.SectionDescriptor, records []domain.Record) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	cols := visibleColumns(section, true)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"424242"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	columnStyles, err := g.columnStyles(f, cols)
	if err != nil {
		return err
	}

	for rowIdx, r := range records {
		row := make([]any, len(cols))
		for i := range cols {
			row[i] = typedCell(&cols[i], r)
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := c.Width
		if width == 0 {
			width = 16
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
		if style, ok := columnStyles[i]; ok && len(records) > 0 {
			first, _ := excelize.CoordinatesToCellName(i+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(i+1, len(records)+1)
			if err := f.SetCellStyle(sheet, first, bottom, style); err != nil {
				return fmt.Errorf("failed to style column: %w", err)
			}
		}
	}
	return nil
}

// columnStyles builds number/date/currency format styles per column index.
func (g *SpreadsheetGenerator) columnStyles(f *excelize.File, cols []domain.ColumnDescriptor) (map[int]int, error) {
	styles := make(map[int]int)
	for i, c := range cols {
		var style *excelize.Style
		switch c.Type {
		case domain.ColumnTypeNumber:
			fmtCode := "#,##0"
			style = &excelize.Style{CustomNumFmt: &fmtCode}
		case domain.ColumnTypeCurrency:
			fmtCode := "#,##0.00"
			style = &excelize.Style{CustomNumFmt: &fmtCode}
		case domain.ColumnTypePercent:
			fmtCode := "0.0%"
			style = &excelize.Style{CustomNumFmt: &fmtCode}
		case domain.ColumnTypeDate:
			fmtCode := "yyyy-mm-dd"
			style = &excelize.Style{CustomNumFmt: &fmtCode}
		default:
			continue
		}
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, fmt.Errorf("failed to create column style: %w", err)
		}
		styles[i] = id
	}
	return styles, nil
}

// typedCell keeps numeric and date values typed so format codes apply.
func typedCell(col *domain.ColumnDescriptor, r domain.Record) any {
	v, ok := r[col.ID]
	if !ok || v == nil {
		return ""
	}
	switch col.Type {
	case domain.ColumnTypeNumber, domain.ColumnTypeCurrency, domain.ColumnTypePercent:
		if n, ok := toFloat(v); ok {
			return n
		}
	case domain.ColumnTypeDate:
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return cellValue(col, r)
}

// sheetName truncates a section title to the xlsx sheet name limit without
// splitting a rune, and suffixes a counter when two titles truncate to the
// same name so each section keeps its own sheet.
func sheetName(title string, used map[string]bool) string {
	runes := []rune(title)
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	name := string(runes)
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		trimmed := runes
		if len(trimmed)+len(suffix) > maxSheetNameLen {
			trimmed = trimmed[:maxSheetNameLen-len(suffix)]
		}
		name = string(trimmed) + suffix
	}
	used[name] = true
	return name
}
