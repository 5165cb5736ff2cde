package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// LegacyRenderer reproduces the exact historical layout of one report whose
// paginated appearance predates the unified engine and must not change.
type LegacyRenderer interface {
	ReportID() string
	Render(data *domain.ProcessedReportData, config *domain.ReportConfig) ([]byte, error)
}

// DocumentGenerator renders the paginated document layout. Legacy adapter
// selection happens here, resolved once at construction into a closed set
// keyed by report id, not inside the engine.
type DocumentGenerator struct {
	legacy map[string]LegacyRenderer
}

func NewDocumentGenerator(legacy ...LegacyRenderer) *DocumentGenerator {
	byID := make(map[string]LegacyRenderer, len(legacy))
	for _, r := range legacy {
		byID[r.ReportID()] = r
	}
	return &DocumentGenerator{legacy: byID}
}

func (g *DocumentGenerator) Format() domain.Format { return domain.FormatDocument }

func (g *DocumentGenerator) Generate(data *domain.ProcessedReportData, config *domain.ReportConfig) (*domain.Payload, error) {
	raw, err := g.render(data, config)
	if err != nil {
		return nil, err
	}
	return &domain.Payload{
		Data:     raw,
		MIME:     MIMEDocument,
		Filename: Filename(config.ID, data.Metadata.GeneratedAt, "pdf"),
	}, nil
}

func (g *DocumentGenerator) render(data *domain.ProcessedReportData, config *domain.ReportConfig) ([]byte, error) {
	if override, ok := config.StyleOverrides[domain.FormatDocument]; ok && override.LegacyLayout {
		if renderer, ok := g.legacy[config.ID]; ok {
			return renderer.Render(data, config)
		}
	}
	return g.renderGeneric(data, config)
}

const (
	pageMargin   = 14.0
	footerHeight = 15.0
	rowHeight    = 7.0
	headerFill   = 0x42 // dark grey header band, matches the legacy reports
)

func (g *DocumentGenerator) renderGeneric(data *domain.ProcessedReportData, config *domain.ReportConfig) ([]byte, error) {
	orientation := "P"
	if override, ok := config.StyleOverrides[domain.FormatDocument]; ok && override.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d of {nb}", pdf.PageNo()),
			"", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	g.writeHeader(pdf, data, config)

	for i := range config.Sections {
		section := &config.Sections[i]
		if section.SuppressedIn(domain.FormatDocument) {
			continue
		}
		switch section.Type {
		case domain.SectionTypeSummary:
			g.writeSummarySection(pdf, section, data)
		case domain.SectionTypeTable:
			g.writeTableSection(pdf, section, data.Sections[section.ID])
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *DocumentGenerator) writeHeader(pdf *fpdf.Fpdf, data *domain.ProcessedReportData, config *domain.ReportConfig) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, config.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(96, 96, 96)
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Generated: %s", data.Metadata.GeneratedAt.Format("02/01/2006 15:04")),
		"", 1, "L", false, 0, "")
	for _, line := range appliedFilters(&data.Metadata) {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Total records: %d", data.Metadata.TotalRecords),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (g *DocumentGenerator) writeSummarySection(pdf *fpdf.Fpdf, section *domain.SectionDescriptor, data *domain.ProcessedReportData) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, field := range section.SummaryFields {
		value, ok := data.Summary[field.ID]
		if !ok {
			continue
		}
		pdf.CellFormat(60, 6, field.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, summaryValue(value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *DocumentGenerator) writeTableSection(pdf *fpdf.Fpdf, section *domain.SectionDescriptor, records []domain.Record) {
	cols := visibleColumns(section, false)
	if len(cols) == 0 {
		return
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")

	pageW, pageH, _ := pdf.PageSize(pdf.PageNo())
	usable := pageW - 2*pageMargin
	widths := columnWidths(cols, usable)

	writeHeaderRow := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(headerFill, headerFill, headerFill)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range cols {
			pdf.CellFormat(widths[i], rowHeight, c.Label, "", 0, align(c.Align), true, 0, "")
		}
		pdf.Ln(rowHeight)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeaderRow()

	for _, r := range records {
		if pdf.GetY()+rowHeight > pageH-footerHeight {
			pdf.AddPage()
			writeHeaderRow()
		}
		for i := range cols {
			pdf.CellFormat(widths[i], rowHeight, cellValue(&cols[i], r), "", 0, align(cols[i].Align), false, 0, "")
		}
		pdf.Ln(rowHeight)
	}
	pdf.Ln(4)
}

// columnWidths distributes the usable width, honouring declared widths and
// splitting the remainder evenly.
func columnWidths(cols []domain.ColumnDescriptor, usable float64) []float64 {
	widths := make([]float64, len(cols))
	var claimed float64
	unclaimed := 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			claimed += c.Width
		} else {
			unclaimed++
		}
	}
	if unclaimed > 0 {
		share := (usable - claimed) / float64(unclaimed)
		if share < 10 {
			share = 10
		}
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func align(a string) string {
	switch a {
	case "right":
		return "R"
	case "center":
		return "C"
	default:
		return "L"
	}
}
