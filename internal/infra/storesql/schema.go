package storesql

import (
	"context"
	"fmt"
	"strings"
)

// Timestamps are stored as fixed-width RFC3339 TEXT in both dialects
// (SQLite has no native datetime type, and a single scan path beats two).
// The fixed fractional width keeps lexicographic order equal to time order,
// which the newest-first order listing relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Base DDL per dialect. Deliberately without promo_price and status: those
// arrived after the first deployments and are applied as additive migrations
// below, so older databases pick them up without data loss.
var schemas = map[string][]string{
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT    NOT NULL,
			description TEXT    NOT NULL DEFAULT '',
			price       REAL    NOT NULL,
			category    TEXT    NOT NULL DEFAULT '',
			image       TEXT    NOT NULL DEFAULT '',
			in_stock    INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_name  TEXT NOT NULL,
			email          TEXT NOT NULL DEFAULT '',
			phone          TEXT NOT NULL,
			address        TEXT NOT NULL,
			city           TEXT NOT NULL,
			total          REAL NOT NULL,
			items          TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			created_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
	},
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS products (
			id          BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name        VARCHAR(255) NOT NULL,
			description TEXT,
			price       DOUBLE NOT NULL,
			category    VARCHAR(128) NOT NULL DEFAULT '',
			image       TEXT,
			in_stock    TINYINT(1) NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id             BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			customer_name  VARCHAR(255) NOT NULL,
			email          VARCHAR(255) NOT NULL DEFAULT '',
			phone          VARCHAR(64)  NOT NULL,
			address        TEXT NOT NULL,
			city           VARCHAR(128) NOT NULL,
			total          DOUBLE NOT NULL,
			items          TEXT NOT NULL,
			payment_method VARCHAR(64) NOT NULL,
			created_at     VARCHAR(40) NOT NULL,
			INDEX idx_orders_created_at (created_at)
		)`,
	},
}

// Additive column migrations, run on every start. Re-running against an
// up-to-date database raises a duplicate-column error, which is expected and
// skipped; anything else aborts initialization.
var migrations = map[string][]string{
	DialectSQLite: {
		`ALTER TABLE products ADD COLUMN promo_price REAL`,
		`ALTER TABLE orders ADD COLUMN status TEXT NOT NULL DEFAULT 'pending'`,
	},
	DialectMySQL: {
		`ALTER TABLE products ADD COLUMN promo_price DOUBLE NULL`,
		`ALTER TABLE orders ADD COLUMN status VARCHAR(32) NOT NULL DEFAULT 'pending'`,
	},
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, ddl := range schemas[s.dialect] {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, ddl := range migrations[s.dialect] {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// isDuplicateColumn matches both dialects' "column already exists" errors:
// SQLite says "duplicate column name", MySQL raises 1060 "Duplicate column
// name". Matching on the shared message avoids a second allow-list.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}
