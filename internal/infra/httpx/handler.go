package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/ports"
	"github.com/jcmexdev/osouk/internal/core/service"
	"github.com/jcmexdev/osouk/internal/infra/httpx/middlewares"
)

// Handler handles the storefront's HTTP surface: public catalog reads and
// checkout, plus the admin console's product mutations and order listing.
type Handler struct {
	products *service.ProductService
	orders   *service.OrderService
	dbReady  func() bool
}

// NewHandler wires the handler to its services. dbReady is the store's
// readiness probe, surfaced on /health.
func NewHandler(products *service.ProductService, orders *service.OrderService, dbReady func() bool) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
		dbReady:  dbReady,
	}
}

// Health always answers 200; dbReady tells deploy tooling whether the store
// initialization has completed or the process is serving degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", DBReady: h.dbReady()})
}

// ListProducts never errors to the caller: the service degrades to the
// fallback mirror on any store problem.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.products.List(r.Context())
	if products == nil {
		products = []entity.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
		return
	}

	slog.InfoContext(r.Context(), "creating product",
		"request_id", middlewares.RequestIDFromContext(r.Context()), "name", in.Name)

	res, err := h.products.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "product_create_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Success:   true,
		Product:   res.Product,
		Persisted: persistedFlag(res.Persisted),
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
		return
	}

	res, err := h.products.Update(r.Context(), id, in)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "product_update_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Success:   true,
		Product:   res.Product,
		Persisted: persistedFlag(res.Persisted),
	})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	persisted, err := h.products.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "product_delete_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Persisted: persistedFlag(persisted)})
}

// ListOrders returns orders newest-first; store failures degrade to an empty
// listing inside the service.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.List(r.Context())
	writeJSON(w, http.StatusOK, orders)
}

// CreateOrder is the public checkout endpoint. Unlike products there is no
// degraded success: a store failure is a 500 so the customer retries instead
// of trusting an acknowledgment that was never durable.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := h.orders.Create(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "order creation failed",
			"request_id", middlewares.RequestIDFromContext(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "order_create_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, OrderCreatedResponse{Success: true, OrderID: id})
}

// productID parses the {id} path parameter, answering 400 itself on garbage.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return 0, false
	}
	return id, true
}

// persistedFlag renders the degraded-write marker: nil (omitted) for durable
// writes, explicit false when only the fallback mirror was touched.
func persistedFlag(persisted bool) *bool {
	if persisted {
		return nil
	}
	f := false
	return &f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
