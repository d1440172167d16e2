// Package ports holds the interfaces the services depend on. The concrete
// SQL implementations live in internal/infra/storesql; tests substitute
// in-memory fakes.
package ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
)

// Sentinel errors shared between the repositories and the services.
// Repository implementations wrap their underlying errors with one of these
// so callers can branch with errors.Is without importing driver packages.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a connectivity-class failure: the store is
	// unreachable, refused the connection, or timed out. The product service
	// falls back to the in-memory mirror on this class; everything else
	// (constraint violations and the like) propagates as a plain failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ProductRepository is the persistence port for the catalog.
type ProductRepository interface {
	// List returns all products ordered by id ascending.
	List(ctx context.Context) ([]entity.Product, error)

	// Create inserts the product and returns it with the store-assigned id.
	Create(ctx context.Context, p entity.Product) (entity.Product, error)

	// Update replaces every field of the row matching p.ID.
	// Returns ErrNotFound if no such row exists.
	Update(ctx context.Context, p entity.Product) error

	// Delete removes the row by id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id int64) error
}

// OrderRepository is the persistence port for checkout orders.
// There is deliberately no update or delete: orders are written once.
type OrderRepository interface {
	// Create inserts the order and returns the store-assigned id.
	Create(ctx context.Context, o entity.Order) (int64, error)

	// List returns all orders newest-first.
	List(ctx context.Context) ([]entity.Order, error)
}
