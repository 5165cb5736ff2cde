package legacy

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// VoidPalletRenderer reproduces the historical void-pallet report: a
// landscape detail grid with a dark header band, a "Product Code Summary"
// page of the top 20 products by voided quantity, a "Daily Void Summary"
// page, and a grey footer carrying the page number and generation stamp.
type VoidPalletRenderer struct{}

func NewVoidPalletRenderer() *VoidPalletRenderer { return &VoidPalletRenderer{} }

func (r *VoidPalletRenderer) ReportID() string { return "void-pallet-report" }

const (
	voidDetailSection = "void_records"
	voidPageBreakY    = 180.0
)

type voidRow struct {
	time        time.Time
	palletNum   string
	productCode string
	originalQty float64
	voidQty     float64
	reason      string
	voidedBy    string
	location    string
}

func (r *VoidPalletRenderer) Render(data *domain.ProcessedReportData, config *domain.ReportConfig) ([]byte, error) {
	rows := make([]voidRow, 0, len(data.Sections[voidDetailSection]))
	for _, rec := range data.Sections[voidDetailSection] {
		rows = append(rows, voidRow{
			time:        Time(rec, "time"),
			palletNum:   String(rec, "plt_num", "N/A"),
			productCode: String(rec, "product_code", "N/A"),
			originalQty: Number(rec, "product_qty", 0),
			voidQty:     Number(rec, "void_qty", 0),
			reason:      String(rec, "reason", "N/A"),
			voidedBy:    String(rec, "user_name", "Unknown"),
			location:    String(rec, "plt_loc", "N/A"),
		})
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	generatedAt := data.Metadata.GeneratedAt
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.SetXY(14, 200)
		pdf.CellFormat(0, 5,
			fmt.Sprintf("Generated: %s", generatedAt.Format("02/01/2006 15:04")),
			"", 0, "L", false, 0, "")
		pdf.SetXY(14, 200)
		pdf.CellFormat(256, 5,
			fmt.Sprintf("Page %d of {nb}", pdf.PageNo()),
			"", 0, "R", false, 0, "")
	})

	r.renderDetailPages(pdf, data, rows)
	if len(rows) > 0 {
		r.renderProductSummary(pdf, rows)
		r.renderDailySummary(pdf, rows)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render void pallet report: %w", err)
	}
	return buf.Bytes(), nil
}

var voidHeaders = []string{
	"Date/Time", "Pallet No.", "Product Code", "Original Qty",
	"Void Qty", "Reason", "Voided By", "Location",
}

var voidColWidths = []float64{34, 30, 30, 26, 22, 48, 30, 30}

func (r *VoidPalletRenderer) renderDetailPages(pdf *fpdf.Fpdf, data *domain.ProcessedReportData, rows []voidRow) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(14, 20, "Void Pallet Report")

	pdf.SetFont("Helvetica", "", 10)
	start := data.Metadata.AppliedFilters.String("startDate")
	end := data.Metadata.AppliedFilters.String("endDate")
	if start == "" {
		start = "All"
	}
	if end == "" {
		end = "Today"
	}
	pdf.Text(14, 28, fmt.Sprintf("Report Period: %s to %s", start, end))
	pdf.Text(14, 34, fmt.Sprintf("Total Records: %d", len(rows)))

	y := r.detailHeaderBand(pdf, 45)
	pdf.SetFont("Helvetica", "", 9)

	for _, row := range rows {
		if y > voidPageBreakY {
			pdf.AddPage()
			y = r.detailHeaderBand(pdf, 20)
			pdf.SetFont("Helvetica", "", 9)
		}
		x := 14.0
		cells := []string{
			row.time.Format("02/01/2006 15:04"),
			row.palletNum,
			row.productCode,
			fmt.Sprintf("%.0f", row.originalQty),
			fmt.Sprintf("%.0f", row.voidQty),
			row.reason,
			row.voidedBy,
			row.location,
		}
		for i, cell := range cells {
			pdf.Text(x, y, truncate(cell, int(voidColWidths[i]/2)))
			x += voidColWidths[i]
		}
		y += 7
	}
}

// detailHeaderBand draws the dark header row and returns the y position of
// the first data row.
func (r *VoidPalletRenderer) detailHeaderBand(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFillColor(66, 66, 66)
	pdf.Rect(14, y-5, 270, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	x := 14.0
	for i, h := range voidHeaders {
		pdf.Text(x, y, h)
		x += voidColWidths[i]
	}
	pdf.SetTextColor(0, 0, 0)
	return y + 12
}

type voidBucket struct {
	key   string
	count int
	qty   float64
}

func (r *VoidPalletRenderer) renderProductSummary(pdf *fpdf.Fpdf, rows []voidRow) {
	buckets := bucketBy(rows, func(row voidRow) string { return row.productCode })
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].qty > buckets[j].qty })
	if len(buckets) > 20 {
		buckets = buckets[:20]
	}
	r.renderSummaryPage(pdf, "Product Code Summary", "Product Code", buckets)
}

func (r *VoidPalletRenderer) renderDailySummary(pdf *fpdf.Fpdf, rows []voidRow) {
	buckets := bucketBy(rows, func(row voidRow) string { return row.time.Format("2006-01-02") })
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key > buckets[j].key })
	r.renderSummaryPage(pdf, "Daily Void Summary", "Date", buckets)
}

func (r *VoidPalletRenderer) renderSummaryPage(pdf *fpdf.Fpdf, title, keyLabel string, buckets []voidBucket) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(14, 20, title)

	y := 35.0
	pdf.SetFillColor(66, 66, 66)
	pdf.Rect(14, y-5, 200, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(14, y, keyLabel)
	pdf.Text(100, y, "Void Count")
	pdf.Text(150, y, "Total Quantity")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	y += 12

	for _, b := range buckets {
		if y > voidPageBreakY {
			pdf.AddPage()
			y = 20
		}
		pdf.Text(14, y, b.key)
		pdf.Text(100, y, fmt.Sprintf("%d", b.count))
		pdf.Text(150, y, fmt.Sprintf("%.0f", b.qty))
		y += 7
	}
}

func bucketBy(rows []voidRow, key func(voidRow) string) []voidBucket {
	byKey := make(map[string]*voidBucket)
	order := make([]string, 0)
	for _, row := range rows {
		k := key(row)
		b, ok := byKey[k]
		if !ok {
			b = &voidBucket{key: k}
			byKey[k] = b
			order = append(order, k)
		}
		b.count++
		b.qty += row.voidQty
	}
	buckets := make([]voidBucket, 0, len(order))
	for _, k := range order {
		buckets = append(buckets, *byKey[k])
	}
	return buckets
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
