package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jimmytdh/prconverter/dto"
)

// ErrNotFound is returned when a record or item does not exist (or an item
// does not belong to the given record).
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS purchase_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name TEXT NOT NULL,
	fund_cluster TEXT,
	pr_no TEXT,
	responsibility_center_code TEXT,
	request_date TEXT,
	unit TEXT,
	item_description TEXT,
	quantity REAL,
	unit_cost REAL,
	total_cost REAL,
	requested_by TEXT,
	designation1 TEXT,
	approved_by TEXT,
	designation2 TEXT,
	raw_text TEXT,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS purchase_request_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	purchase_request_id INTEGER NOT NULL,
	stock_property_no TEXT,
	unit TEXT,
	item_description TEXT,
	quantity REAL,
	unit_cost REAL,
	total_cost REAL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (purchase_request_id) REFERENCES purchase_requests(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_purchase_request_items_prid
ON purchase_request_items(purchase_request_id);
`

// Store persists parsed purchase requests as a parent row plus N item rows.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecord inserts the parent row and its items in one transaction and
// returns the new record id.
func (s *Store) SaveRecord(ctx context.Context, fileName, rawText string, data dto.PurchaseRequestData) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO purchase_requests (
			file_name, fund_cluster, pr_no, responsibility_center_code, request_date,
			unit, item_description, quantity, unit_cost, total_cost,
			requested_by, designation1, approved_by, designation2, raw_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fileName, data.FundCluster, data.PRNo, data.ResponsibilityCenterCode, data.RequestDate,
		data.Unit, data.ItemDescription, data.Quantity, data.UnitCost, data.TotalCost,
		data.RequestedBy, data.Designation1, data.ApprovedBy, data.Designation2, rawText,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read record id: %w", err)
	}

	for _, item := range data.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO purchase_request_items (
				purchase_request_id, stock_property_no, unit, item_description, quantity, unit_cost, total_cost
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, item.StockPropertyNo, item.Unit, item.ItemDescription, item.Quantity, item.UnitCost, item.TotalCost,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// ListRecords returns all stored records, newest first, without items.
func (s *Store) ListRecords(ctx context.Context) ([]dto.PurchaseRequestRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, created_at, fund_cluster, pr_no, responsibility_center_code, request_date,
			unit, item_description, quantity, unit_cost, total_cost,
			requested_by, designation1, approved_by, designation2
		FROM purchase_requests ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []dto.PurchaseRequestRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetRecord returns one record including its items.
func (s *Store) GetRecord(ctx context.Context, id int64) (*dto.PurchaseRequestRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, created_at, fund_cluster, pr_no, responsibility_center_code, request_date,
			unit, item_description, quantity, unit_cost, total_cost,
			requested_by, designation1, approved_by, designation2
		FROM purchase_requests WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return rec, nil
}

// ListItems returns the child items of a record in insertion order.
func (s *Store) ListItems(ctx context.Context, recordID int64) ([]dto.PurchaseRequestItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stock_property_no, unit, item_description, quantity, unit_cost, total_cost
		FROM purchase_request_items WHERE purchase_request_id = ? ORDER BY id ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []dto.PurchaseRequestItem{}
	for rows.Next() {
		var item dto.PurchaseRequestItem
		if err := rows.Scan(&item.ID, &item.StockPropertyNo, &item.Unit, &item.ItemDescription,
			&item.Quantity, &item.UnitCost, &item.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveItem creates (itemID == 0) or updates an item and recomputes the
// parent total in the same transaction. It returns the item id, the item
// count after the write, the recomputed total and whether the write was a
// create or an update.
func (s *Store) SaveItem(ctx context.Context, recordID, itemID int64, item dto.PurchaseRequestItem) (int64, int, *float64, string, error) {
	// A missing total is derived from quantity x unit cost before storage.
	if item.TotalCost == nil && item.Quantity != nil && item.UnitCost != nil {
		total := round2(*item.Quantity * *item.UnitCost)
		item.TotalCost = &total
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := recordExists(ctx, tx, recordID); err != nil {
		return 0, 0, nil, "", err
	}

	mode := "create"
	if itemID > 0 {
		var owner int64
		err := tx.QueryRowContext(ctx,
			"SELECT purchase_request_id FROM purchase_request_items WHERE id = ?", itemID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != recordID) {
			return 0, 0, nil, "", ErrNotFound
		}
		if err != nil {
			return 0, 0, nil, "", fmt.Errorf("failed to look up item: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE purchase_request_items
			SET stock_property_no = ?, unit = ?, item_description = ?, quantity = ?, unit_cost = ?, total_cost = ?
			WHERE id = ?`,
			item.StockPropertyNo, item.Unit, item.ItemDescription, item.Quantity, item.UnitCost, item.TotalCost, itemID)
		if err != nil {
			return 0, 0, nil, "", fmt.Errorf("failed to update item: %w", err)
		}
		mode = "update"
	} else {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO purchase_request_items (
				purchase_request_id, stock_property_no, unit, item_description, quantity, unit_cost, total_cost
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			recordID, item.StockPropertyNo, item.Unit, item.ItemDescription, item.Quantity, item.UnitCost, item.TotalCost)
		if err != nil {
			return 0, 0, nil, "", fmt.Errorf("failed to insert item: %w", err)
		}
		itemID, err = res.LastInsertId()
		if err != nil {
			return 0, 0, nil, "", fmt.Errorf("failed to read item id: %w", err)
		}
	}

	count, err := countItems(ctx, tx, recordID)
	if err != nil {
		return 0, 0, nil, "", err
	}

	total, err := recalculateTotal(ctx, tx, recordID)
	if err != nil {
		return 0, 0, nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, nil, "", fmt.Errorf("failed to commit: %w", err)
	}
	return itemID, count, total, mode, nil
}

// DeleteItem removes an item and recomputes the parent total. It returns
// the remaining item count and the new total.
func (s *Store) DeleteItem(ctx context.Context, recordID, itemID int64) (int, *float64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM purchase_request_items WHERE id = ? AND purchase_request_id = ?", itemID, recordID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete item: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return 0, nil, ErrNotFound
	}

	count, err := countItems(ctx, tx, recordID)
	if err != nil {
		return 0, nil, err
	}

	total, err := recalculateTotal(ctx, tx, recordID)
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit: %w", err)
	}
	return count, total, nil
}

// DeleteRecord removes a record (items cascade) and returns the stored file
// name so the caller can discard the uploaded PDF.
func (s *Store) DeleteRecord(ctx context.Context, id int64) (string, error) {
	var fileName string
	err := s.db.QueryRowContext(ctx,
		"SELECT file_name FROM purchase_requests WHERE id = ?", id).Scan(&fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up record: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM purchase_requests WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("failed to delete record: %w", err)
	}
	return fileName, nil
}

func recordExists(ctx context.Context, tx *sql.Tx, recordID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM purchase_requests WHERE id = ?", recordID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up record: %w", err)
	}
	return nil
}

func countItems(ctx context.Context, tx *sql.Tx, recordID int64) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM purchase_request_items WHERE purchase_request_id = ?", recordID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// recalculateTotal sets the parent total_cost to the sum of the non-null
// item totals, or NULL when no item carries a total.
func recalculateTotal(ctx context.Context, tx *sql.Tx, recordID int64) (*float64, error) {
	var total sql.NullFloat64
	err := tx.QueryRowContext(ctx,
		`SELECT SUM(total_cost) FROM purchase_request_items
		WHERE purchase_request_id = ? AND total_cost IS NOT NULL`, recordID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to sum item totals: %w", err)
	}

	var value *float64
	if total.Valid {
		v := round2(total.Float64)
		value = &v
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE purchase_requests SET total_cost = ? WHERE id = ?", value, recordID); err != nil {
		return nil, fmt.Errorf("failed to update record total: %w", err)
	}
	return value, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*dto.PurchaseRequestRecord, error) {
	var rec dto.PurchaseRequestRecord
	err := row.Scan(&rec.ID, &rec.FileName, &rec.CreatedAt,
		&rec.FundCluster, &rec.PRNo, &rec.ResponsibilityCenterCode, &rec.RequestDate,
		&rec.Unit, &rec.ItemDescription, &rec.Quantity, &rec.UnitCost, &rec.TotalCost,
		&rec.RequestedBy, &rec.Designation1, &rec.ApprovedBy, &rec.Designation2)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	return &rec, nil
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}
