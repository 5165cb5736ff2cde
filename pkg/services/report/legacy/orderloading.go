package legacy

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// OrderLoadingRenderer reproduces the historical order-loading report: a
// landscape summary block, a detail grid with load rows in green and unload
// rows in red, and an "Order Summary" page grouping net quantities by order
// reference.
type OrderLoadingRenderer struct{}

func NewOrderLoadingRenderer() *OrderLoadingRenderer { return &OrderLoadingRenderer{} }

func (r *OrderLoadingRenderer) ReportID() string { return "order-loading-report" }

const loadingDetailSection = "loading_records"

type loadingRow struct {
	time       time.Time
	orderRef   string
	palletNum  string
	product    string
	qty        float64
	actionType string
	actionBy   string
}

func (r *OrderLoadingRenderer) Render(data *domain.ProcessedReportData, config *domain.ReportConfig) ([]byte, error) {
	rows := make([]loadingRow, 0, len(data.Sections[loadingDetailSection]))
	for _, rec := range data.Sections[loadingDetailSection] {
		rows = append(rows, loadingRow{
			time:       Time(rec, "action_time"),
			orderRef:   String(rec, "order_ref", "N/A"),
			palletNum:  String(rec, "pallet_num", "N/A"),
			product:    String(rec, "product_code", "N/A"),
			qty:        Number(rec, "quantity", 0),
			actionType: String(rec, "action_type", "load"),
			actionBy:   String(rec, "action_by", "Unknown"),
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
		r.renderOrderSummary(pdf, rows)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render order loading report: %w", err)
	}
	return buf.Bytes(), nil
}

var loadingHeaders = []string{"Date/Time", "Order Ref", "Pallet No.", "Product", "Qty", "Action", "User"}

var loadingColWidths = []float64{40, 30, 35, 50, 20, 25, 40}

func (r *OrderLoadingRenderer) renderDetailPages(pdf *fpdf.Fpdf, data *domain.ProcessedReportData, rows []loadingRow) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(14, 20, "Order Loading Report")

	var totalLoads, totalUnloads int
	var qtyLoaded, qtyUnloaded float64
	orders := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, row := range rows {
		orders[row.orderRef] = struct{}{}
		products[row.product] = struct{}{}
		if row.actionType == "unload" {
			totalUnloads++
			qtyUnloaded += row.qty
		} else {
			totalLoads++
			qtyLoaded += row.qty
		}
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(14, 40, fmt.Sprintf("Total Loads: %d (%.0f units)", totalLoads, qtyLoaded))
	pdf.Text(14, 47, fmt.Sprintf("Total Unloads: %d (%.0f units)", totalUnloads, qtyUnloaded))
	pdf.Text(14, 54, fmt.Sprintf("Net Loaded: %.0f units", qtyLoaded-qtyUnloaded))
	pdf.Text(14, 61, fmt.Sprintf("Unique Orders: %d | Unique Products: %d", len(orders), len(products)))

	y := r.detailHeaderBand(pdf, 75)
	pdf.SetFont("Helvetica", "", 9)

	for _, row := range rows {
		if y > 180 {
			pdf.AddPage()
			y = r.detailHeaderBand(pdf, 20)
			pdf.SetFont("Helvetica", "", 9)
		}

		action := "Load"
		if row.actionType == "unload" {
			action = "Unload"
			pdf.SetTextColor(255, 0, 0)
		} else {
			pdf.SetTextColor(0, 128, 0)
		}

		x := 14.0
		cells := []string{
			row.time.Format("02/01/2006 15:04"),
			row.orderRef,
			row.palletNum,
			row.product,
			fmt.Sprintf("%.0f", row.qty),
			action,
			row.actionBy,
		}
		for i, cell := range cells {
			pdf.Text(x, y, truncate(cell, int(loadingColWidths[i]/2)))
			x += loadingColWidths[i]
		}
		pdf.SetTextColor(0, 0, 0)
		y += 7
	}
}

func (r *OrderLoadingRenderer) detailHeaderBand(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFillColor(66, 66, 66)
	pdf.Rect(14, y-5, 270, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	x := 14.0
	for i, h := range loadingHeaders {
		pdf.Text(x, y, h)
		x += loadingColWidths[i]
	}
	pdf.SetTextColor(0, 0, 0)
	return y + 15
}

type orderStats struct {
	ref      string
	products map[string]struct{}
	loaded   float64
	unloaded float64
	net      float64
}

func (r *OrderLoadingRenderer) renderOrderSummary(pdf *fpdf.Fpdf, rows []loadingRow) {
	byOrder := make(map[string]*orderStats)
	for _, row := range rows {
		stats, ok := byOrder[row.orderRef]
		if !ok {
			stats = &orderStats{ref: row.orderRef, products: make(map[string]struct{})}
			byOrder[row.orderRef] = stats
		}
		stats.products[row.product] = struct{}{}
		if row.actionType == "unload" {
			stats.unloaded += row.qty
			stats.net -= row.qty
		} else {
			stats.loaded += row.qty
			stats.net += row.qty
		}
	}

	ordered := make([]*orderStats, 0, len(byOrder))
	for _, stats := range byOrder {
		ordered = append(ordered, stats)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ref < ordered[j].ref })

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(14, 20, "Order Summary")

	y := 35.0
	pdf.SetFillColor(66, 66, 66)
	pdf.Rect(14, y-5, 200, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(14, y, "Order Reference")
	pdf.Text(60, y, "Products")
	pdf.Text(90, y, "Loaded")
	pdf.Text(120, y, "Unloaded")
	pdf.Text(150, y, "Net Quantity")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	y += 12

	for _, stats := range ordered {
		if y > 180 {
			pdf.AddPage()
			y = 20
		}
		pdf.Text(14, y, stats.ref)
		pdf.Text(60, y, fmt.Sprintf("%d", len(stats.products)))
		pdf.Text(90, y, fmt.Sprintf("%.0f", stats.loaded))
		pdf.Text(120, y, fmt.Sprintf("%.0f", stats.unloaded))
		pdf.Text(150, y, fmt.Sprintf("%.0f", stats.net))
		y += 7
	}
}
