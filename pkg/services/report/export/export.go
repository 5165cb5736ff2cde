// Package export contains the format generators of the report engine: one
// renderer per output format, all consuming the same processed report data.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

const (
	MIMEDocument    = "application/pdf"
	MIMESpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEText        = "text/csv"
)

// Filename builds the download name for a generated report, following the
// established `{reportId}_{date}.{ext}` convention.
func Filename(reportID string, generatedAt time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", reportID, generatedAt.Format("2006-01-02"), ext)
}

// cellValue coerces a record field for a column into a display string,
// honouring the column's type and format.
func cellValue(col *domain.ColumnDescriptor, r domain.Record) string {
	v, ok := r[col.ID]
	if !ok || v == nil {
		return ""
	}

	switch col.Type {
	case domain.ColumnTypeDate:
		layout := col.Format
		if layout == "" {
			layout = "2006-01-02"
		}
		if t, ok := v.(time.Time); ok {
			return t.Format(layout)
		}
	case domain.ColumnTypeNumber:
		if n, ok := toFloat(v); ok {
			if col.Format != "" {
				return fmt.Sprintf(col.Format, n)
			}
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case domain.ColumnTypeCurrency:
		if n, ok := toFloat(v); ok {
			return fmt.Sprintf("%.2f", n)
		}
	case domain.ColumnTypePercent:
		if n, ok := toFloat(v); ok {
			return fmt.Sprintf("%.1f%%", n)
		}
	}

	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// appliedFilters renders the request's filter values as a stable,
// human-readable "key: value" list.
func appliedFilters(meta *domain.ReportMetadata) []string {
	ids := make([]string, 0, len(meta.AppliedFilters))
	for id := range meta.AppliedFilters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if meta.AppliedFilters.IsZero(id) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", id, meta.AppliedFilters.String(id)))
	}
	return lines
}

// visibleColumns filters out export-only columns for the document format.
func visibleColumns(section *domain.SectionDescriptor, includeExportOnly bool) []domain.ColumnDescriptor {
	cols := make([]domain.ColumnDescriptor, 0, len(section.Columns))
	for _, c := range section.Columns {
		if c.ExportOnly && !includeExportOnly {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// summaryValue renders a computed summary value for label/value output.
func summaryValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
