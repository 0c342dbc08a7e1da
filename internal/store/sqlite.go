package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/posentinel/sentinel/internal/model"
)

const reminderKey = "daily"

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const orderColumns = `id, po_number, vendor, creation_date, approve_date, delivery_date,
	status, priority, total_amount, item_code, unit_price, currency,
	quantity, uom, item_description, pending_quantity, notes`

const orderInsert = `
	INSERT INTO orders (
		id, po_number, vendor, creation_date, approve_date, delivery_date,
		status, priority, total_amount, item_code, unit_price, currency,
		quantity, uom, item_description, pending_quantity, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateOrder inserts a new purchase order. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order model.PurchaseOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = model.StatusPending
	}
	if order.Priority == "" {
		order.Priority = model.PriorityMedium
	}

	_, err := s.db.ExecContext(ctx, orderInsert, orderArgs(order)...)
	if err != nil {
		return fmt.Errorf("creating order %s: %w", order.ID, err)
	}
	return nil
}

// UpdateOrder updates an existing purchase order by ID.
func (s *SQLiteStore) UpdateOrder(ctx context.Context, order model.PurchaseOrder) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			po_number = ?, vendor = ?, creation_date = ?, approve_date = ?,
			delivery_date = ?, status = ?, priority = ?, total_amount = ?,
			item_code = ?, unit_price = ?, currency = ?, quantity = ?,
			uom = ?, item_description = ?, pending_quantity = ?, notes = ?
		WHERE id = ?`,
		order.PONumber, order.Vendor, order.CreationDate, order.ApproveDate,
		order.DeliveryDate, string(order.Status), string(order.Priority), order.TotalAmount,
		order.ItemCode, order.UnitPrice, order.Currency, order.Quantity,
		order.UOM, order.ItemDescription, order.PendingQuantity, order.Notes,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order %s: %w", order.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order %s not found", order.ID)
	}
	return nil
}

// DeleteOrder removes a purchase order by ID.
func (s *SQLiteStore) DeleteOrder(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting order %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

// GetOrderByID retrieves a single purchase order by its ID.
func (s *SQLiteStore) GetOrderByID(
	ctx context.Context,
	id string,
) (*model.PurchaseOrder, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("getting order %s: %w", id, err)
	}
	return &order, nil
}

// GetOrders retrieves the full order collection, most recently stored first.
func (s *SQLiteStore) GetOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []model.PurchaseOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// AppendOrders inserts a batch of orders ahead of the existing set.
func (s *SQLiteStore) AppendOrders(
	ctx context.Context,
	orders []model.PurchaseOrder,
) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertOrders(ctx, tx, orders); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceOrders swaps the entire stored collection for the given one.
func (s *SQLiteStore) ReplaceOrders(
	ctx context.Context,
	orders []model.PurchaseOrder,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders"); err != nil {
		return fmt.Errorf("clearing orders: %w", err)
	}

	if err := insertOrders(ctx, tx, orders); err != nil {
		return err
	}

	return tx.Commit()
}

// insertOrders writes a batch inside tx, walking it back to front so the
// batch's own order survives the rowid-descending read.
func insertOrders(ctx context.Context, tx *sqlx.Tx, orders []model.PurchaseOrder) error {
	stmt, err := tx.PreparexContext(ctx, orderInsert)
	if err != nil {
		return fmt.Errorf("preparing order insert: %w", err)
	}
	defer stmt.Close()

	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		if o.Status == "" {
			o.Status = model.StatusPending
		}
		if o.Priority == "" {
			o.Priority = model.PriorityMedium
		}
		if _, err := stmt.ExecContext(ctx, orderArgs(o)...); err != nil {
			return fmt.Errorf("inserting order %s: %w", o.ID, err)
		}
	}

	return nil
}

// SaveAlerts replaces the stored alert history wholesale, preserving the
// given slice order as the display order.
func (s *SQLiteStore) SaveAlerts(ctx context.Context, alerts []model.Alert) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM alerts"); err != nil {
		return fmt.Errorf("clearing alerts: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO alerts (id, order_id, po_number, title, message, severity, created_at, read, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing alert insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range alerts {
		_, err := stmt.ExecContext(ctx,
			a.ID, a.OrderID, a.PONumber, a.Title, a.Message,
			string(a.Severity), a.CreatedAt.UTC(), boolToInt(a.Read), i,
		)
		if err != nil {
			return fmt.Errorf("inserting alert %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetAlerts retrieves the alert history in its stored display order.
func (s *SQLiteStore) GetAlerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, order_id, po_number, title, message, severity, created_at, read FROM alerts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

// MarkAlertRead marks a single alert as read.
func (s *SQLiteStore) MarkAlertRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE alerts SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking alert %s as read: %w", id, err)
	}
	return nil
}

// ClearAlerts removes the entire alert history.
func (s *SQLiteStore) ClearAlerts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM alerts"); err != nil {
		return fmt.Errorf("clearing alerts: %w", err)
	}
	return nil
}

// GetLastReminder returns the date a reminder was last dispatched,
// or "" when none ever was.
func (s *SQLiteStore) GetLastReminder(ctx context.Context) (string, error) {
	var lastSent string
	err := s.db.GetContext(ctx, &lastSent,
		"SELECT last_sent FROM reminder_state WHERE key = ?", reminderKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading reminder state: %w", err)
	}
	return lastSent, nil
}

// SetLastReminder records the date a reminder was dispatched.
func (s *SQLiteStore) SetLastReminder(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_state (key, last_sent) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET last_sent = excluded.last_sent`,
		reminderKey, date,
	)
	if err != nil {
		return fmt.Errorf("writing reminder state: %w", err)
	}
	return nil
}

// orderArgs flattens an order into the orderInsert parameter list.
func orderArgs(o model.PurchaseOrder) []interface{} {
	return []interface{}{
		o.ID, o.PONumber, o.Vendor, o.CreationDate, o.ApproveDate, o.DeliveryDate,
		string(o.Status), string(o.Priority), o.TotalAmount, o.ItemCode, o.UnitPrice,
		o.Currency, o.Quantity, o.UOM, o.ItemDescription, o.PendingQuantity, o.Notes,
	}
}

// scanOrder scans an order row from anything with a Scan method.
func scanOrder(row interface{ Scan(dest ...interface{}) error }) (model.PurchaseOrder, error) {
	var (
		order    model.PurchaseOrder
		status   string
		priority string
	)

	err := row.Scan(
		&order.ID, &order.PONumber, &order.Vendor,
		&order.CreationDate, &order.ApproveDate, &order.DeliveryDate,
		&status, &priority, &order.TotalAmount,
		&order.ItemCode, &order.UnitPrice, &order.Currency,
		&order.Quantity, &order.UOM, &order.ItemDescription,
		&order.PendingQuantity, &order.Notes,
	)
	if err != nil {
		return model.PurchaseOrder{}, fmt.Errorf("scanning order row: %w", err)
	}

	order.Status = model.Status(status)
	order.Priority = model.Priority(priority)

	return order, nil
}

// scanAlert scans an alert row from a sqlx.Rows result set.
func scanAlert(rows *sqlx.Rows) (model.Alert, error) {
	var (
		alert     model.Alert
		severity  string
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(
		&alert.ID, &alert.OrderID, &alert.PONumber,
		&alert.Title, &alert.Message, &severity,
		&createdAt, &readInt,
	)
	if err != nil {
		return model.Alert{}, fmt.Errorf("scanning alert row: %w", err)
	}

	alert.Severity = model.Severity(severity)
	alert.Read = readInt != 0
	alert.CreatedAt = createdAt

	return alert, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
