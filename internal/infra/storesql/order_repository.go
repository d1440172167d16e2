package storesql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
)

// orderRepository implements ports.OrderRepository. The item lines are
// stored as a JSON blob in the items column; decoding is validated on read
// rather than assumed well-formed.
type orderRepository struct {
	store *Store
}

func (r *orderRepository) Create(ctx context.Context, o entity.Order) (int64, error) {
	if err := r.store.guard(); err != nil {
		return 0, err
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return 0, fmt.Errorf("storesql: encode order items: %w", err)
	}

	const q = `
		INSERT INTO orders
			(customer_name, email, phone, address, city, total, items, payment_method, status, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.store.db.ExecContext(ctx, q,
		o.CustomerName, o.Email, o.Phone, o.Address, o.City,
		o.Total, string(items), o.PaymentMethod, o.Status,
		o.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, classify("create order", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify("create order id", err)
	}
	return id, nil
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	if err := r.store.guard(); err != nil {
		return nil, err
	}

	// id DESC breaks ties between orders created in the same nanosecond.
	const q = `
		SELECT id, customer_name, email, phone, address, city, total, items, payment_method, status, created_at
		FROM   orders
		ORDER  BY created_at DESC, id DESC`

	rows, err := r.store.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify("list orders", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		var items, createdAt string

		if err := rows.Scan(
			&o.ID, &o.CustomerName, &o.Email, &o.Phone, &o.Address, &o.City,
			&o.Total, &items, &o.PaymentMethod, &o.Status, &createdAt,
		); err != nil {
			return nil, classify("scan order", err)
		}

		// A corrupt blob degrades one order to empty items instead of
		// poisoning the whole listing.
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			slog.ErrorContext(ctx, "order has undecodable items blob", "order_id", o.ID, "error", err)
			o.Items = []entity.OrderItem{}
		}

		o.CreatedAt, err = parseStoredTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("storesql: order %d: %w", o.ID, err)
		}

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list orders", err)
	}

	return orders, nil
}

// parseStoredTime parses the RFC3339 TEXT timestamps written by Create.
func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
