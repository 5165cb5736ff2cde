package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// utf8BOM keeps non-ASCII text intact in spreadsheet applications that
// sniff CSV encodings.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVGenerator renders one comma-separated block per non-suppressed table
// section, preceded by a title line and the applied filters.
type CSVGenerator struct{}

func NewCSVGenerator() *CSVGenerator { return &CSVGenerator{} }

func (g *CSVGenerator) Format() domain.Format { return domain.FormatText }

func (g *CSVGenerator) Generate(data *domain.ProcessedReportData, config *domain.ReportConfig) (*domain.Payload, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)

	if err := w.Write([]string{config.Name}); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	if filters := appliedFilters(&data.Metadata); len(filters) > 0 {
		if err := w.Write(append([]string{"Filters"}, filters...)); err != nil {
			return nil, fmt.Errorf("failed to write filters: %w", err)
		}
	}

	for i := range config.Sections {
		section := &config.Sections[i]
		if section.Type != domain.SectionTypeTable || section.SuppressedIn(domain.FormatText) {
			continue
		}
		if err := g.writeSection(w, section, data.Sections[section.ID]); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &domain.Payload{
		Data:     buf.Bytes(),
		MIME:     MIMEText,
		Filename: Filename(config.ID, data.Metadata.GeneratedAt, "csv"),
	}, nil
}

func (g *CSVGenerator) writeSection(w *csv.Writer, section *domain.SectionDescriptor, records []domain.Record) error {
	// blank line, then title, header and rows
	if err := w.Write([]string{""}); err != nil {
		return err
	}
	if err := w.Write([]string{section.Title}); err != nil {
		return err
	}

	cols := visibleColumns(section, true)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, r := range records {
		for i := range cols {
			row[i] = cellValue(&cols[i], r)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
