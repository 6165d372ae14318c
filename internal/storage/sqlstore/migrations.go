package sqlstore

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. The statements are valid for
// both SQLite and PostgreSQL.
//
// group_members.purchase_id is the primary key: a purchase can be held by at
// most one group, active or redeemed.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS purchases (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    ordered_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS line_items (
    id TEXT PRIMARY KEY,
    purchase_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    subtotal BIGINT NOT NULL,
    discount_eligible BOOLEAN NOT NULL DEFAULT TRUE,
    FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bonus_groups (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    discount_rate DOUBLE PRECISION NOT NULL,
    total_discount BIGINT NOT NULL,
    status TEXT NOT NULL,
    auto BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    redeemed_at BIGINT NOT NULL DEFAULT 0,
    redeemed_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS group_members (
    purchase_id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    bundle_index INTEGER NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES bonus_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS drafts (
    customer_id TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY,
    discount_rate DOUBLE PRECISION NOT NULL,
    orders_required INTEGER NOT NULL,
    auto_create BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_purchases_customer_id ON purchases(customer_id);
CREATE INDEX IF NOT EXISTS idx_line_items_purchase_id ON line_items(purchase_id);
CREATE INDEX IF NOT EXISTS idx_bonus_groups_customer_id ON bonus_groups(customer_id);
CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
`

// runMigrations executes the schema setup.
func (s *SQLStore) runMigrations() error {
	_, err := s.db.Exec(schema)
	return err
}
