package warehouse

import (
	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/store/warehouse"
)

// Categories the shipped reports group under.
const (
	CategoryStock      = "stock"
	CategoryOperations = "operations"
	CategoryQuality    = "quality"
)

func floatPtr(v float64) *float64 { return &v }

// RegisterAll registers every shipped warehouse report against the given
// registry, backed by the store.
func RegisterAll(registry report.Registry, store warehouse.Store) error {
	register := []func(report.Registry, warehouse.Store) error{
		registerStockTakeReport,
		registerVoidPalletReport,
		registerOrderLoadingReport,
		registerGrnReport,
		registerAcoOrderReport,
		registerTransactionReport,
	}
	for _, fn := range register {
		if err := fn(registry, store); err != nil {
			return err
		}
	}
	return nil
}

// Calculators returns the custom summary calculators the shipped reports
// reference by name.
func Calculators() report.Calculators {
	merged := report.Calculators{}
	for _, calcs := range []report.Calculators{
		stockTakeCalculators(),
		voidPalletCalculators(),
		orderLoadingCalculators(),
	} {
		for name, fn := range calcs {
			merged[name] = fn
		}
	}
	return merged
}

func registerStockTakeReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "stock-take-report",
		Name:          "Stock Take Report",
		Description:   "Count progress and variance against system stock for a stock take date",
		Category:      CategoryStock,
		Formats:       []domain.Format{domain.FormatDocument, domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatSpreadsheet,
		Filters: []domain.FilterDescriptor{
			{ID: "stockTakeDate", Label: "Stock Take Date", Type: domain.FilterTypeDate, Required: true},
			{ID: "productCode", Label: "Product Code", Type: domain.FilterTypeText},
			{
				ID:    "minVariance",
				Label: "Min Variance %",
				Type:  domain.FilterTypeNumber,
				Validation: &domain.ValidationRule{
					Min: floatPtr(0),
					Max: floatPtr(100),
				},
			},
			{ID: "countStatus", Label: "Count Status", Type: domain.FilterTypeSelect},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "stock_take_summary",
				Title:      "Summary",
				Type:       domain.SectionTypeSummary,
				DataSource: "stock_take_summary",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "total_products", Label: "Total Products", Kind: domain.AggregateCount},
					{ID: "counted_products", Label: "Counted Products", Kind: domain.AggregateCustom, Calculator: "counted_products"},
					{ID: "completion_rate", Label: "Completion Rate %", Kind: domain.AggregateCustom, Calculator: "completion_rate"},
					{ID: "total_variance", Label: "Total Variance", Kind: domain.AggregateSum, Field: "variance"},
					{ID: "high_variance_count", Label: "High Variance Products", Kind: domain.AggregateCustom, Calculator: "high_variance_count"},
				},
			},
			{
				ID:         "stock_take_details",
				Title:      "Count Details",
				Type:       domain.SectionTypeTable,
				DataSource: "stock_take_details",
				Columns: []domain.ColumnDescriptor{
					{ID: "product_code", Label: "Product Code", Type: domain.ColumnTypeString, Width: 28},
					{ID: "description", Label: "Description", Type: domain.ColumnTypeString, Width: 50},
					{ID: "system_stock", Label: "System Stock", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "counted_qty", Label: "Counted Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "variance", Label: "Variance", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "variance_pct", Label: "Variance %", Type: domain.ColumnTypePercent, Align: "right"},
					{ID: "pallet_count", Label: "Pallets", Type: domain.ColumnTypeNumber, Align: "right", ExportOnly: true},
					{ID: "status", Label: "Status", Type: domain.ColumnTypeString},
				},
			},
			{
				ID:         "not_counted_items",
				Title:      "Items Not Counted",
				Type:       domain.SectionTypeTable,
				DataSource: "not_counted_items",
				Columns: []domain.ColumnDescriptor{
					{ID: "product_code", Label: "Product Code", Type: domain.ColumnTypeString, Width: 28},
					{ID: "description", Label: "Description", Type: domain.ColumnTypeString, Width: 60},
					{ID: "system_stock", Label: "System Stock", Type: domain.ColumnTypeNumber, Align: "right"},
				},
			},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"stock_take_summary": NewStockTakeSummarySource(store),
		"stock_take_details": NewStockTakeDetailsSource(store),
		"not_counted_items":  NewNotCountedSource(store),
	})
}

func registerVoidPalletReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "void-pallet-report",
		Name:          "Void Pallet Report",
		Description:   "Voided pallets with damage breakdown for a date range",
		Category:      CategoryQuality,
		Formats:       []domain.Format{domain.FormatDocument, domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatDocument,
		Filters: []domain.FilterDescriptor{
			{ID: "dateRange", Label: "Date Range", Type: domain.FilterTypeDateRange, Required: true},
			{ID: "voidReason", Label: "Void Reason", Type: domain.FilterTypeText},
			{ID: "productCode", Label: "Product Code", Type: domain.FilterTypeText},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "void_summary",
				Title:      "Summary",
				Type:       domain.SectionTypeSummary,
				DataSource: "void_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "total_voids", Label: "Total Voids", Kind: domain.AggregateCount},
					{ID: "total_qty", Label: "Total Quantity Voided", Kind: domain.AggregateSum, Field: "void_qty"},
					{ID: "damage_voids", Label: "Damage Voids", Kind: domain.AggregateCustom, Calculator: "damage_voids"},
					{ID: "full_voids", Label: "Full Voids", Kind: domain.AggregateCustom, Calculator: "full_voids"},
					{ID: "unique_products", Label: "Unique Products", Kind: domain.AggregateCustom, Calculator: "unique_products"},
				},
			},
			{
				ID:         "void_records",
				Title:      "Void Records",
				Type:       domain.SectionTypeTable,
				DataSource: "void_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "time", Label: "Date/Time", Type: domain.ColumnTypeDate, Format: "02/01/2006 15:04"},
					{ID: "plt_num", Label: "Pallet No.", Type: domain.ColumnTypeString},
					{ID: "product_code", Label: "Product Code", Type: domain.ColumnTypeString},
					{ID: "product_qty", Label: "Original Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "void_qty", Label: "Void Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "reason", Label: "Reason", Type: domain.ColumnTypeString, Width: 45},
					{ID: "user_name", Label: "Voided By", Type: domain.ColumnTypeString},
					{ID: "plt_loc", Label: "Location", Type: domain.ColumnTypeString, ExportOnly: true},
				},
			},
		},
		StyleOverrides: map[domain.Format]domain.StyleOverride{
			domain.FormatDocument: {LegacyLayout: true, Orientation: "landscape"},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"void_records": NewVoidRecordsSource(store),
	})
}

func registerOrderLoadingReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "order-loading-report",
		Name:          "Order Loading Report",
		Description:   "Load and unload actions against customer orders",
		Category:      CategoryOperations,
		Formats:       []domain.Format{domain.FormatDocument, domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatDocument,
		Filters: []domain.FilterDescriptor{
			{ID: "dateRange", Label: "Date Range", Type: domain.FilterTypeDateRange, Required: true},
			{ID: "orderRef", Label: "Order Reference", Type: domain.FilterTypeText},
			{ID: "productCode", Label: "Product Code", Type: domain.FilterTypeText},
			{ID: "actionBy", Label: "Action By", Type: domain.FilterTypeText},
			{ID: "actionType", Label: "Action Type", Type: domain.FilterTypeSelect},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "loading_summary",
				Title:      "Summary",
				Type:       domain.SectionTypeSummary,
				DataSource: "loading_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "total_actions", Label: "Total Actions", Kind: domain.AggregateCount},
					{ID: "load_actions", Label: "Load Actions", Kind: domain.AggregateCustom, Calculator: "load_actions"},
					{ID: "unload_actions", Label: "Unload Actions", Kind: domain.AggregateCustom, Calculator: "unload_actions"},
					{ID: "net_loaded", Label: "Net Quantity Loaded", Kind: domain.AggregateCustom, Calculator: "net_loaded"},
					{ID: "unique_orders", Label: "Unique Orders", Kind: domain.AggregateCustom, Calculator: "unique_orders"},
				},
			},
			{
				ID:         "loading_records",
				Title:      "Loading History",
				Type:       domain.SectionTypeTable,
				DataSource: "loading_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "action_time", Label: "Date/Time", Type: domain.ColumnTypeDate, Format: "02/01/2006 15:04"},
					{ID: "order_ref", Label: "Order Ref", Type: domain.ColumnTypeString},
					{ID: "pallet_num", Label: "Pallet No.", Type: domain.ColumnTypeString},
					{ID: "product_code", Label: "Product", Type: domain.ColumnTypeString},
					{ID: "quantity", Label: "Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "action_type", Label: "Action", Type: domain.ColumnTypeString},
					{ID: "action_by", Label: "User", Type: domain.ColumnTypeString},
					{ID: "remark", Label: "Remark", Type: domain.ColumnTypeString, ExportOnly: true},
				},
			},
			{
				ID:         "loading_user_stats",
				Title:      "User Totals",
				Type:       domain.SectionTypeTable,
				DataSource: "loading_user_stats",
				SuppressIn: []domain.Format{domain.FormatText},
				Columns: []domain.ColumnDescriptor{
					{ID: "user_name", Label: "User", Type: domain.ColumnTypeString},
					{ID: "load_count", Label: "Loads", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "unload_count", Label: "Unloads", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "net_quantity", Label: "Net Qty", Type: domain.ColumnTypeNumber, Align: "right"},
				},
			},
		},
		StyleOverrides: map[domain.Format]domain.StyleOverride{
			domain.FormatDocument: {LegacyLayout: true, Orientation: "landscape"},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"loading_records":    NewLoadingRecordsSource(store),
		"loading_user_stats": NewLoadingUserStatsSource(store),
	})
}

func registerGrnReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "grn-report",
		Name:          "GRN Report",
		Description:   "Material receipts for a goods received note",
		Category:      CategoryOperations,
		Formats:       []domain.Format{domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatSpreadsheet,
		Filters: []domain.FilterDescriptor{
			{ID: "grnRef", Label: "GRN Reference", Type: domain.FilterTypeNumber, Required: true},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "grn_totals",
				Title:      "Totals",
				Type:       domain.SectionTypeSummary,
				DataSource: "grn_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "line_count", Label: "Receipt Lines", Kind: domain.AggregateCount},
					{ID: "gross_weight", Label: "Total Gross Weight", Kind: domain.AggregateSum, Field: "gross_weight"},
					{ID: "net_weight", Label: "Total Net Weight", Kind: domain.AggregateSum, Field: "net_weight"},
					{ID: "pallet_count", Label: "Total Pallets", Kind: domain.AggregateSum, Field: "pallet_count"},
				},
			},
			{
				ID:         "grn_records",
				Title:      "Receipts",
				Type:       domain.SectionTypeTable,
				DataSource: "grn_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "material_code", Label: "Material", Type: domain.ColumnTypeString},
					{ID: "description", Label: "Description", Type: domain.ColumnTypeString, Width: 45},
					{ID: "supplier_name", Label: "Supplier", Type: domain.ColumnTypeString, Width: 35},
					{ID: "gross_weight", Label: "Gross Weight", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "net_weight", Label: "Net Weight", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "pallet_count", Label: "Pallets", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "package_count", Label: "Packages", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "received_at", Label: "Received", Type: domain.ColumnTypeDate},
				},
			},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"grn_records": NewGrnRecordsSource(store),
	})
}

func registerAcoOrderReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "aco-order-report",
		Name:          "ACO Order Report",
		Description:   "Production progress against an ACO order",
		Category:      CategoryOperations,
		Formats:       []domain.Format{domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatSpreadsheet,
		Filters: []domain.FilterDescriptor{
			{ID: "orderRef", Label: "Order Reference", Type: domain.FilterTypeNumber, Required: true},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "aco_order_progress",
				Title:      "Order Progress",
				Type:       domain.SectionTypeTable,
				DataSource: "aco_order_progress",
				Columns: []domain.ColumnDescriptor{
					{ID: "product_code", Label: "Product Code", Type: domain.ColumnTypeString},
					{ID: "required_qty", Label: "Required Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "produced_qty", Label: "Produced Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "remaining", Label: "Remaining", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "pallet_count", Label: "Pallets", Type: domain.ColumnTypeNumber, Align: "right"},
				},
			},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"aco_order_progress": NewAcoProgressSource(store),
	})
}

func registerTransactionReport(registry report.Registry, store warehouse.Store) error {
	config := &domain.ReportConfig{
		ID:            "transaction-report",
		Name:          "Transaction Report",
		Description:   "Pallet transfers between locations for a date range",
		Category:      CategoryStock,
		Formats:       []domain.Format{domain.FormatDocument, domain.FormatSpreadsheet, domain.FormatText},
		DefaultFormat: domain.FormatSpreadsheet,
		Filters: []domain.FilterDescriptor{
			{ID: "dateRange", Label: "Date Range", Type: domain.FilterTypeDateRange, Required: true},
		},
		Sections: []domain.SectionDescriptor{
			{
				ID:         "transfer_summary",
				Title:      "Summary",
				Type:       domain.SectionTypeSummary,
				DataSource: "transfer_records",
				SummaryFields: []domain.SummaryFieldDescriptor{
					{ID: "total_transfers", Label: "Total Transfers", Kind: domain.AggregateCount},
					{ID: "total_qty", Label: "Total Quantity Moved", Kind: domain.AggregateSum, Field: "quantity"},
				},
			},
			{
				ID:         "transfer_records",
				Title:      "Transfers",
				Type:       domain.SectionTypeTable,
				DataSource: "transfer_records",
				Columns: []domain.ColumnDescriptor{
					{ID: "transfer_at", Label: "Date/Time", Type: domain.ColumnTypeDate, Format: "02/01/2006 15:04"},
					{ID: "plt_num", Label: "Pallet No.", Type: domain.ColumnTypeString},
					{ID: "product_code", Label: "Product", Type: domain.ColumnTypeString},
					{ID: "quantity", Label: "Qty", Type: domain.ColumnTypeNumber, Align: "right"},
					{ID: "from_loc", Label: "From", Type: domain.ColumnTypeString},
					{ID: "to_loc", Label: "To", Type: domain.ColumnTypeString},
					{ID: "operator", Label: "Operator", Type: domain.ColumnTypeString},
				},
			},
		},
	}
	return registry.Register(config, map[string]report.DataSource{
		"transfer_records": NewTransferRecordsSource(store),
	})
}
