package storesql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/ports"
)

// productRepository implements ports.ProductRepository. Every operation is a
// single independent statement: last-write-wins, no transactions, per the
// concurrency model.
type productRepository struct {
	store *Store
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	if err := r.store.guard(); err != nil {
		return nil, err
	}

	const q = `
		SELECT id, name, description, price, category, image, in_stock, promo_price
		FROM   products
		ORDER  BY id ASC`

	rows, err := r.store.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify("list products", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list products", err)
	}

	return products, nil
}

func (r *productRepository) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	if err := r.store.guard(); err != nil {
		return entity.Product{}, err
	}

	const q = `
		INSERT INTO products (name, description, price, category, image, in_stock, promo_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.store.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.Category, p.Image, boolToInt(p.InStock), nullableFloat(p.PromoPrice),
	)
	if err != nil {
		return entity.Product{}, classify("create product", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entity.Product{}, classify("create product id", err)
	}
	p.ID = id

	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p entity.Product) error {
	if err := r.store.guard(); err != nil {
		return err
	}

	// Existence is checked separately because RowsAffected reports zero for
	// a no-op update on MySQL, which would read as a false not-found.
	var exists bool
	err := r.store.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, p.ID,
	).Scan(&exists)
	if err != nil {
		return classify("check product", err)
	}
	if !exists {
		return fmt.Errorf("storesql: product %d: %w", p.ID, ports.ErrNotFound)
	}

	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, category = ?, image = ?, in_stock = ?, promo_price = ?
		WHERE  id = ?`

	_, err = r.store.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.Category, p.Image, boolToInt(p.InStock), nullableFloat(p.PromoPrice), p.ID,
	)
	if err != nil {
		return classify("update product", err)
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	if err := r.store.guard(); err != nil {
		return err
	}

	// Deleting an absent id succeeds: the operation is idempotent.
	if _, err := r.store.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return classify("delete product", err)
	}
	return nil
}

// scanProduct reads one row from the product SELECT column order above.
func scanProduct(rows *sql.Rows) (entity.Product, error) {
	var p entity.Product
	var inStock int
	var promo sql.NullFloat64

	if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &inStock, &promo); err != nil {
		return entity.Product{}, err
	}

	p.InStock = inStock != 0
	if promo.Valid {
		p.PromoPrice = &promo.Float64
	}
	return p, nil
}
