// Package storesql is the relational persistence adapter. It owns the
// schema for the products and orders tables, the seed of an empty catalog,
// and the connection lifecycle, behind database/sql with two dialects:
//
//   - sqlite (modernc.org/sqlite): the default. Pure Go, no CGO, WAL mode so
//     readers never block writers. Mirrors the original single-file
//     deployment.
//   - mysql (go-sql-driver/mysql): for a managed store. Point DATABASE_DSN at
//     it ("user:pass@tcp(host:3306)/osouk").
//
// Initialization runs as a supervised background retry loop so the HTTP
// boundary can come up and serve fallback reads while the store is still
// warming up (or never arrives).
package storesql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	// Register both drivers. The pure-Go SQLite driver is chosen over
	// mattn/go-sqlite3 to keep Alpine/Docker builds CGO-free.
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/jcmexdev/osouk/internal/core/fallback"
	"github.com/jcmexdev/osouk/internal/core/ports"
)

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// Config carries the store settings injected from the environment.
type Config struct {
	// Driver is DialectSQLite or DialectMySQL.
	Driver string

	// DSN is a file path for sqlite or a go-sql-driver DSN for mysql.
	DSN string

	// InitAttempts bounds the startup retry loop (default 8).
	InitAttempts int

	// InitDelay is the fixed pause between attempts (default 3s).
	InitDelay time.Duration
}

// Store wraps the shared connection pool plus a process-wide readiness flag.
// Ready flips to true exactly once, after schema setup and seeding succeed.
type Store struct {
	db      *sql.DB
	dialect string

	attempts int
	delay    time.Duration

	ready atomic.Bool
}

// Open creates the pool without touching the network: database/sql dials
// lazily, so a down store does not fail here. Schema setup happens in
// InitWithRetry.
func Open(cfg Config) (*Store, error) {
	if cfg.InitAttempts <= 0 {
		cfg.InitAttempts = 8
	}
	if cfg.InitDelay <= 0 {
		cfg.InitDelay = 3 * time.Second
	}

	var db *sql.DB
	var err error

	switch cfg.Driver {
	case DialectSQLite, "":
		cfg.Driver = DialectSQLite
		// WAL enables concurrent readers. busy_timeout waits for locks
		// instead of failing immediately.
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DSN)
		db, err = sql.Open("sqlite", dsn)
		if err == nil {
			// SQLite performs best with a single writer connection.
			db.SetMaxOpenConns(1)
		}
	case DialectMySQL:
		db, err = sql.Open("mysql", cfg.DSN)
		if err == nil {
			db.SetConnMaxLifetime(3 * time.Minute)
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(10)
		}
	default:
		return nil, fmt.Errorf("storesql: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("storesql: open %s store: %w", cfg.Driver, err)
	}

	return &Store{
		db:       db,
		dialect:  cfg.Driver,
		attempts: cfg.InitAttempts,
		delay:    cfg.InitDelay,
	}, nil
}

// Close releases the pool. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Ready reports whether initialization has completed. The health endpoint
// surfaces this as dbReady; repositories refuse work before it flips so
// callers take their fallback paths deterministically.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Products returns the catalog repository backed by this store.
func (s *Store) Products() ports.ProductRepository {
	return &productRepository{store: s}
}

// Orders returns the order repository backed by this store.
func (s *Store) Orders() ports.OrderRepository {
	return &orderRepository{store: s}
}

// InitWithRetry pings the store, applies the schema and additive migrations,
// and seeds an empty catalog, retrying up to the configured attempt count
// with a fixed delay. Run it as a goroutine from main: the HTTP server must
// not wait for it.
//
// On success the readiness flag flips and onReady (if non-nil) fires once —
// main uses it to warm the fallback mirror from the persisted state. After
// the final attempt the process stays up in degraded mode; giving up is
// logged at ERROR, never fatal.
func (s *Store) InitWithRetry(ctx context.Context, onReady func(context.Context)) error {
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.initialize(ctx)
		if lastErr == nil {
			s.ready.Store(true)
			slog.InfoContext(ctx, "store ready", "dialect", s.dialect, "attempt", attempt)
			if onReady != nil {
				onReady(ctx)
			}
			return nil
		}

		slog.WarnContext(ctx, "store initialization failed",
			"dialect", s.dialect,
			"attempt", attempt,
			"max_attempts", s.attempts,
			"error", lastErr,
		)

		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}

	slog.ErrorContext(ctx, "store initialization exhausted all attempts, serving in degraded mode",
		"dialect", s.dialect,
		"attempts", s.attempts,
		"error", lastErr,
	)
	return fmt.Errorf("storesql: init after %d attempts: %w", s.attempts, lastErr)
}

func (s *Store) initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := s.applySchema(ctx); err != nil {
		return err
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	return s.seedIfEmpty(ctx)
}

// seedIfEmpty populates a brand-new products table with the built-in catalog
// so the shop never opens on an empty page.
func (s *Store) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	const q = `
		INSERT INTO products (name, description, price, category, image, in_stock, promo_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, p := range fallback.SeedCatalog() {
		if _, err := s.db.ExecContext(ctx, q,
			p.Name, p.Description, p.Price, p.Category, p.Image, boolToInt(p.InStock), nullableFloat(p.PromoPrice),
		); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	slog.InfoContext(ctx, "seeded empty catalog", "products", len(fallback.SeedCatalog()))
	return nil
}

// guard rejects work until initialization succeeds, classified as a
// connectivity failure so the services take their fallback paths.
func (s *Store) guard() error {
	if !s.ready.Load() {
		return fmt.Errorf("storesql: not initialized yet: %w", ports.ErrStoreUnavailable)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableFloat returns nil for absent promo prices so the column stores
// NULL rather than 0.
func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
