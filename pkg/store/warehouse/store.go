// Package warehouse is the SQL read layer behind the report data sources.
// Queries mirror the warehouse schema: record_stocktake, stock_level,
// report_void, order_loading_history, record_grn, record_aco and
// record_transfer.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/newpennine/report-engine/pkg/models/store"
)

// Store exposes the warehouse read queries the report data sources draw
// from. The subsystem never writes back.
type Store interface {
	StockTakeRecords(ctx context.Context, day time.Time) ([]store.StockTakeRecord, error)
	StockLevels(ctx context.Context) ([]store.StockLevel, error)
	VoidRecords(ctx context.Context, start, end time.Time, reason string) ([]store.VoidRecord, error)
	LoadingRecords(ctx context.Context, start, end time.Time, orderRef string) ([]store.LoadingRecord, error)
	GrnRecords(ctx context.Context, grnRef int64) ([]store.GrnRecord, error)
	AcoOrder(ctx context.Context, orderRef int64) ([]store.AcoOrderRecord, error)
	AcoPallets(ctx context.Context, orderRef int64, productCodes []string) ([]store.AcoPallet, error)
	TransferRecords(ctx context.Context, start, end time.Time) ([]store.TransferRecord, error)
}

type sqlStore struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle. The caller owns the handle's
// lifecycle.
func NewStore(db *sqlx.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlStore{db: db}, nil
}

// Connect opens a postgres connection and verifies it.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse db: %w", err)
	}
	return db, nil
}

func (s *sqlStore) StockTakeRecords(ctx context.Context, day time.Time) ([]store.StockTakeRecord, error) {
	query := `
		SELECT count_time, product_code, plt_num, system_qty, counted_qty
		FROM record_stocktake
		WHERE count_time >= $1 AND count_time < $2
		ORDER BY count_time`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var records []store.StockTakeRecord
	if err := s.db.SelectContext(ctx, &records, query, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("failed to query stock take records: %w", err)
	}
	return records, nil
}

func (s *sqlStore) StockLevels(ctx context.Context) ([]store.StockLevel, error) {
	query := `SELECT stock, stock_level, description FROM stock_level`

	var levels []store.StockLevel
	if err := s.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	return levels, nil
}

func (s *sqlStore) VoidRecords(ctx context.Context, start, end time.Time, reason string) ([]store.VoidRecord, error) {
	query := `
		SELECT v.uuid, v.plt_num, v.time, v.reason, v.damage_qty,
		       p.product_code, p.product_qty,
		       d.name AS user_name, p.plt_loc
		FROM report_void v
		LEFT JOIN record_palletinfo p ON p.plt_num = v.plt_num
		LEFT JOIN data_id d ON d.id = v.user_id
		WHERE v.time >= $1 AND v.time < $2`
	args := []any{start, end.AddDate(0, 0, 1)}

	if reason != "" {
		query += ` AND v.reason ILIKE $3`
		args = append(args, "%"+reason+"%")
	}
	query += ` ORDER BY v.time DESC`

	var records []store.VoidRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query void records: %w", err)
	}
	return records, nil
}

func (s *sqlStore) LoadingRecords(ctx context.Context, start, end time.Time, orderRef string) ([]store.LoadingRecord, error) {
	query := `
		SELECT uuid, order_ref, pallet_num, product_code, quantity,
		       action_type, action_by, action_time, remark
		FROM order_loading_history
		WHERE action_time >= $1 AND action_time < $2`
	args := []any{start, end.AddDate(0, 0, 1)}

	if orderRef != "" {
		query += ` AND order_ref ILIKE $3`
		args = append(args, "%"+orderRef+"%")
	}
	query += ` ORDER BY action_time DESC`

	var records []store.LoadingRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query loading records: %w", err)
	}
	return records, nil
}

func (s *sqlStore) GrnRecords(ctx context.Context, grnRef int64) ([]store.GrnRecord, error) {
	query := `
		SELECT g.grn_ref, g.material_code, c.description, g.sup_code,
		       sp.supplier_name, g.gross_weight, g.net_weight,
		       g.pallet_count, g.package_count, g.creat_time
		FROM record_grn g
		LEFT JOIN data_code c ON c.code = g.material_code
		LEFT JOIN data_supplier sp ON sp.supplier_code = g.sup_code
		WHERE g.grn_ref = $1
		ORDER BY g.creat_time`

	var records []store.GrnRecord
	if err := s.db.SelectContext(ctx, &records, query, grnRef); err != nil {
		return nil, fmt.Errorf("failed to query grn records: %w", err)
	}
	return records, nil
}

func (s *sqlStore) AcoOrder(ctx context.Context, orderRef int64) ([]store.AcoOrderRecord, error) {
	query := `
		SELECT order_ref, code, required_qty
		FROM record_aco
		WHERE order_ref = $1
		ORDER BY code`

	var records []store.AcoOrderRecord
	if err := s.db.SelectContext(ctx, &records, query, orderRef); err != nil {
		return nil, fmt.Errorf("failed to query aco order: %w", err)
	}
	return records, nil
}

func (s *sqlStore) AcoPallets(ctx context.Context, orderRef int64, productCodes []string) ([]store.AcoPallet, error) {
	if len(productCodes) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT plt_num, product_code, product_qty, generate_time
		FROM record_palletinfo
		WHERE plt_remark ILIKE ? AND product_code IN (?)
		ORDER BY generate_time`,
		fmt.Sprintf("%%ACO Ref : %d%%", orderRef), productCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build aco pallet query: %w", err)
	}

	var pallets []store.AcoPallet
	if err := s.db.SelectContext(ctx, &pallets, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query aco pallets: %w", err)
	}
	return pallets, nil
}

func (s *sqlStore) TransferRecords(ctx context.Context, start, end time.Time) ([]store.TransferRecord, error) {
	query := `
		SELECT t.uuid, t.plt_num, p.product_code, p.product_qty AS quantity,
		       t.f_loc, t.t_loc, d.name AS operator, t.tran_date
		FROM record_transfer t
		LEFT JOIN record_palletinfo p ON p.plt_num = t.plt_num
		LEFT JOIN data_id d ON d.id = t.operator_id
		WHERE t.tran_date >= $1 AND t.tran_date < $2
		ORDER BY t.tran_date DESC`

	var records []store.TransferRecord
	if err := s.db.SelectContext(ctx, &records, query, start, end.AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("failed to query transfer records: %w", err)
	}
	return records, nil
}
