package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	po_number        TEXT NOT NULL,
	vendor           TEXT NOT NULL DEFAULT '',
	creation_date    TEXT NOT NULL,
	approve_date     TEXT NOT NULL DEFAULT '',
	delivery_date    TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'Pending',
	priority         TEXT NOT NULL DEFAULT 'Medium',
	total_amount     REAL NOT NULL DEFAULT 0,
	item_code        TEXT NOT NULL DEFAULT '',
	unit_price       REAL NOT NULL DEFAULT 0,
	currency         TEXT NOT NULL DEFAULT '',
	quantity         REAL NOT NULL DEFAULT 0,
	uom              TEXT NOT NULL DEFAULT '',
	item_description TEXT NOT NULL DEFAULT '',
	pending_quantity REAL NOT NULL DEFAULT 0,
	notes            TEXT NOT NULL DEFAULT '',
	inserted_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	order_id   TEXT NOT NULL,
	po_number  TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	severity   TEXT NOT NULL DEFAULT 'critical',
	created_at DATETIME NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	position   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS reminder_state (
	key       TEXT PRIMARY KEY,
	last_sent TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_po_number ON orders(po_number);
CREATE INDEX IF NOT EXISTS idx_alerts_order_id ON alerts(order_id);
CREATE INDEX IF NOT EXISTS idx_alerts_position ON alerts(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
