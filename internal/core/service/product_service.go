// Package service implements the storefront's use cases on top of the
// repository ports: catalog CRUD with fallback-on-outage semantics for
// products, and strictly durable order intake.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/fallback"
	"github.com/jcmexdev/osouk/internal/core/ports"
	"github.com/jcmexdev/osouk/internal/pkg/cache"
)

// ProductInput is the fully-validated command produced by the HTTP boundary.
// Price has already been parsed (comma tolerated, positivity checked) and
// PromoPrice normalized to nil when absent or malformed, so the service never
// re-validates.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	InStock     bool
	PromoPrice  *float64
}

// ProductResult is a write outcome. Persisted is false when the store was
// unreachable and the write only landed in the fallback mirror — the HTTP
// layer surfaces that as persisted:false so admins know the write is
// process-lifetime only.
type ProductResult struct {
	Product   entity.Product
	Persisted bool
}

const productCacheTTL = 30 * time.Second

// ProductService owns catalog reads and writes. Reads never hard-fail: any
// store error degrades to the mirror. Writes degrade on connectivity-class
// errors only; validation and constraint failures surface as usual.
type ProductService struct {
	repo   ports.ProductRepository
	mirror *fallback.Mirror
	cache  cache.Cache // nil when Redis is not configured
}

func NewProductService(repo ports.ProductRepository, mirror *fallback.Mirror, c cache.Cache) *ProductService {
	return &ProductService{repo: repo, mirror: mirror, cache: c}
}

// List returns the catalog ordered by id. The read path has three tiers:
// Redis cache, the store, and finally the mirror — so the storefront keeps
// rendering through a full store outage.
func (s *ProductService) List(ctx context.Context) []entity.Product {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cacheKey()); err == nil && raw != "" {
			var products []entity.Product
			if err := json.Unmarshal([]byte(raw), &products); err == nil {
				return products
			}
			slog.WarnContext(ctx, "discarding undecodable product cache entry", "error", err)
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "product listing failed, serving fallback mirror", "error", err)
		return s.mirror.Snapshot()
	}

	// Last known-good persisted state becomes the new fallback baseline.
	s.mirror.ReplaceAll(products)

	if s.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, s.cacheKey(), raw, productCacheTTL); err != nil {
				slog.WarnContext(ctx, "product cache set failed", "error", err)
			}
		}
	}

	return products
}

// Create inserts a product. On a connectivity failure the product is accepted
// into the mirror with a synthesized id and reported as non-persisted, so the
// admin console keeps working through an outage.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (ProductResult, error) {
	p := in.toProduct(0)

	created, err := s.repo.Create(ctx, p)
	switch {
	case err == nil:
		s.mirror.Append(created)
		s.invalidateCache(ctx)
		return ProductResult{Product: created, Persisted: true}, nil

	case errors.Is(err, ports.ErrStoreUnavailable):
		slog.WarnContext(ctx, "store unreachable, accepting product into fallback mirror",
			"name", in.Name, "error", err)
		p = s.mirror.Insert(p)
		s.invalidateCache(ctx)
		return ProductResult{Product: p, Persisted: false}, nil

	default:
		return ProductResult{}, err
	}
}

// Update replaces every field of the product with the given id.
// Returns ports.ErrNotFound when neither the store row nor, in degraded mode,
// a mirror entry matches.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (ProductResult, error) {
	p := in.toProduct(id)

	err := s.repo.Update(ctx, p)
	switch {
	case err == nil:
		s.mirror.Patch(p)
		s.invalidateCache(ctx)
		return ProductResult{Product: p, Persisted: true}, nil

	case errors.Is(err, ports.ErrStoreUnavailable):
		if !s.mirror.Patch(p) {
			return ProductResult{}, ports.ErrNotFound
		}
		slog.WarnContext(ctx, "store unreachable, patched fallback mirror only",
			"id", id, "error", err)
		s.invalidateCache(ctx)
		return ProductResult{Product: p, Persisted: false}, nil

	default:
		return ProductResult{}, err
	}
}

// Delete removes a product. The mirror entry goes away on success and on
// connectivity failures alike, keeping both views consistent; only
// unclassified errors leave the mirror untouched and surface to the caller.
func (s *ProductService) Delete(ctx context.Context, id int64) (persisted bool, err error) {
	err = s.repo.Delete(ctx, id)
	switch {
	case err == nil:
		s.mirror.Remove(id)
		s.invalidateCache(ctx)
		return true, nil

	case errors.Is(err, ports.ErrStoreUnavailable):
		slog.WarnContext(ctx, "store unreachable, removed product from fallback mirror only",
			"id", id, "error", err)
		s.mirror.Remove(id)
		s.invalidateCache(ctx)
		return false, nil

	default:
		return false, err
	}
}

func (s *ProductService) cacheKey() string {
	return s.cache.GenerateKey("products", "all")
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cacheKey()); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", "error", err)
	}
}

func (in ProductInput) toProduct(id int64) entity.Product {
	return entity.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		InStock:     in.InStock,
		PromoPrice:  in.PromoPrice,
	}
}
