package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/ports"
)

// OrderInput is the validated checkout command built at the HTTP boundary.
// Total is trusted as computed by the storefront; it is validated as a
// positive finite number but never recomputed from the items.
type OrderInput struct {
	CustomerName  string
	Email         string
	Phone         string
	Address       string
	City          string
	Total         float64
	Items         []entity.OrderItem
	PaymentMethod string
}

// OrderService handles checkout and the admin order listing.
//
// Unlike products, orders have no fallback path: an order acknowledgment that
// is silently lost on restart is worse than a visible failure the customer
// can retry, so any store error on create surfaces to the caller.
type OrderService struct {
	repo ports.OrderRepository
}

func NewOrderService(repo ports.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Create persists the order and returns its store-assigned id.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (int64, error) {
	order := entity.Order{
		CustomerName:  in.CustomerName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		Total:         in.Total,
		Items:         in.Items,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		return 0, err
	}

	// Stand-in for the shop owner's new-order alert.
	slog.InfoContext(ctx, "new order received",
		"order_id", id,
		"customer", order.CustomerName,
		"phone", order.Phone,
		"total", order.Total,
		"payment_method", order.PaymentMethod,
	)

	return id, nil
}

// List returns all orders newest-first. On a store error it logs and returns
// an empty slice, matching the degrade-gracefully policy of the read paths.
func (s *OrderService) List(ctx context.Context) []entity.Order {
	orders, err := s.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "order listing failed", "error", err)
		return []entity.Order{}
	}
	return orders
}
