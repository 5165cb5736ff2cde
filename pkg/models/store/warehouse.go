package store

import (
	"database/sql"
	"time"
)

// StockTakeRecord is one row of record_stocktake. Initial records created
// at the start of a count carry no pallet number and hold the system
// quantity at that moment.
type StockTakeRecord struct {
	CountTime   time.Time `db:"count_time"`
	ProductCode string    `db:"product_code"`
	PalletNum   string    `db:"plt_num"`
	SystemQty   float64   `db:"system_qty"`
	CountedQty  float64   `db:"counted_qty"`
}

// StockLevel is one row of stock_level.
type StockLevel struct {
	ProductCode string  `db:"stock"`
	StockLevel  float64 `db:"stock_level"`
	Description string  `db:"description"`
}

// VoidRecord is one row of report_void joined to record_palletinfo.
// DamageQty is null for full voids.
type VoidRecord struct {
	UUID        string          `db:"uuid"`
	PalletNum   string          `db:"plt_num"`
	Time        time.Time       `db:"time"`
	Reason      string          `db:"reason"`
	DamageQty   sql.NullFloat64 `db:"damage_qty"`
	ProductCode sql.NullString  `db:"product_code"`
	ProductQty  sql.NullFloat64 `db:"product_qty"`
	UserName    sql.NullString  `db:"user_name"`
	PalletLoc   sql.NullString  `db:"plt_loc"`
}

// LoadingRecord is one row of order_loading_history.
type LoadingRecord struct {
	UUID        string         `db:"uuid"`
	OrderRef    string         `db:"order_ref"`
	PalletNum   string         `db:"pallet_num"`
	ProductCode string         `db:"product_code"`
	Quantity    float64        `db:"quantity"`
	ActionType  string         `db:"action_type"`
	ActionBy    string         `db:"action_by"`
	ActionTime  time.Time      `db:"action_time"`
	Remark      sql.NullString `db:"remark"`
}

// GrnRecord is one row of record_grn joined to supplier and material data.
type GrnRecord struct {
	GrnRef       int64          `db:"grn_ref"`
	MaterialCode string         `db:"material_code"`
	Description  sql.NullString `db:"description"`
	SupCode      string         `db:"sup_code"`
	SupplierName sql.NullString `db:"supplier_name"`
	GrossWeight  float64        `db:"gross_weight"`
	NetWeight    float64        `db:"net_weight"`
	PalletCount  float64        `db:"pallet_count"`
	PackageCount float64        `db:"package_count"`
	CreateTime   time.Time      `db:"creat_time"`
}

// AcoOrderRecord is one row of record_aco.
type AcoOrderRecord struct {
	OrderRef    int64           `db:"order_ref"`
	ProductCode string          `db:"code"`
	RequiredQty sql.NullFloat64 `db:"required_qty"`
}

// AcoPallet is one produced pallet for an ACO order product.
type AcoPallet struct {
	PalletNum    string    `db:"plt_num"`
	ProductCode  string    `db:"product_code"`
	ProductQty   float64   `db:"product_qty"`
	GenerateTime time.Time `db:"generate_time"`
}

// TransferRecord is one row of record_transfer joined to record_palletinfo
// and data_id. The joined columns are null when the pallet or operator row
// is missing.
type TransferRecord struct {
	UUID        string          `db:"uuid"`
	PalletNum   string          `db:"plt_num"`
	ProductCode sql.NullString  `db:"product_code"`
	Quantity    sql.NullFloat64 `db:"quantity"`
	FromLoc     string          `db:"f_loc"`
	ToLoc       string          `db:"t_loc"`
	Operator    sql.NullString  `db:"operator"`
	TransferAt  time.Time       `db:"tran_date"`
}
