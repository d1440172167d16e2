// Package fallback holds the in-memory product mirror used to keep the
// catalog browsable while the relational store is unreachable.
//
// The mirror is a degraded-mode cache, not a system of record: it starts from
// the built-in seed catalog, is replaced wholesale after each successful full
// read (last known-good persisted state), and accepts writes while the store
// is down. Those writes are lost on restart — a deliberate
// availability-over-consistency tradeoff for the admin console.
package fallback

import (
	"slices"
	"sync"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
)

// Mirror is an RWMutex-guarded ordered product set. It is injected into the
// product service rather than living as a package-level variable so the
// sharing discipline is explicit.
type Mirror struct {
	mu       sync.RWMutex
	products []entity.Product
}

// NewMirror returns a mirror pre-populated with the seed catalog, so reads
// served before the store ever becomes reachable still show a real storefront.
func NewMirror() *Mirror {
	return &Mirror{products: SeedCatalog()}
}

// Snapshot returns a copy of the current product set. Callers may mutate the
// returned slice freely.
func (m *Mirror) Snapshot() []entity.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.products)
}

// ReplaceAll swaps the whole set for the given one, typically the result of
// a successful store read.
func (m *Mirror) ReplaceAll(products []entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = slices.Clone(products)
}

// Append adds a product that was successfully persisted, keeping its
// store-assigned id.
func (m *Mirror) Append(p entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, p)
}

// Insert adds a product while the store is down, assigning a synthetic id of
// max existing id + 1 (or 1 on an empty mirror). The id assignment and the
// append happen under one lock so concurrent degraded writes cannot collide.
func (m *Mirror) Insert(p entity.Product) entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max int64
	for _, existing := range m.products {
		if existing.ID > max {
			max = existing.ID
		}
	}
	p.ID = max + 1
	m.products = append(m.products, p)
	return p
}

// Patch replaces the entry matching p.ID in place. Returns false if no entry
// matches.
func (m *Mirror) Patch(p entity.Product) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.products {
		if existing.ID == p.ID {
			m.products[i] = p
			return true
		}
	}
	return false
}

// Remove deletes the entry by id. Removing an absent id is a no-op.
func (m *Mirror) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = slices.DeleteFunc(m.products, func(p entity.Product) bool {
		return p.ID == id
	})
}

// Len reports the current number of mirrored products.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}
