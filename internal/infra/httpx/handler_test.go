package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/fallback"
	"github.com/jcmexdev/osouk/internal/core/ports"
	"github.com/jcmexdev/osouk/internal/core/service"
)

type fakeProductRepo struct {
	mu          sync.Mutex
	products    map[int64]entity.Product
	nextID      int64
	unavailable bool
}

func newFakeProductRepo(seed ...entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int64]entity.Product)}
	for _, p := range seed {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func outageErr() error {
	return fmt.Errorf("dial tcp: connection refused: %w", ports.ErrStoreUnavailable)
}

func (r *fakeProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return nil, outageErr()
	}
	out := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p entity.Product) (entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return entity.Product{}, outageErr()
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return outageErr()
	}
	if _, ok := r.products[p.ID]; !ok {
		return ports.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return outageErr()
	}
	delete(r.products, id)
	return nil
}

type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      []entity.Order
	nextID      int64
	unavailable bool
}

func (r *fakeOrderRepo) Create(ctx context.Context, o entity.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return 0, outageErr()
	}
	r.nextID++
	o.ID = r.nextID
	r.orders = append([]entity.Order{o}, r.orders...)
	return o.ID, nil
}

func (r *fakeOrderRepo) List(ctx context.Context) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return nil, outageErr()
	}
	return append([]entity.Order(nil), r.orders...), nil
}

type testServer struct {
	*httptest.Server
	productRepo *fakeProductRepo
	orderRepo   *fakeOrderRepo
}

func newTestServer(t *testing.T, adminToken string, dbReady bool) *testServer {
	t.Helper()

	productRepo := newFakeProductRepo(fallback.SeedCatalog()...)
	orderRepo := &fakeOrderRepo{}

	products := service.NewProductService(productRepo, fallback.NewMirror(), nil)
	orders := service.NewOrderService(orderRepo)
	handler := NewHandler(products, orders, func() bool { return dbReady })

	srv := httptest.NewServer(NewRouter(handler, RouterConfig{AdminToken: adminToken}))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, productRepo: productRepo, orderRepo: orderRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-admin-token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func productPayload() map[string]any {
	return map[string]any{
		"name":        "Gombo",
		"description": "Gombo frais",
		"price":       18,
		"category":    "Légumes",
		"image":       "https://example.com/gombo.jpg",
		"in_stock":    true,
	}
}

func orderPayload() map[string]any {
	return map[string]any{
		"customer_name": "Awa Koné",
		"phone":         "0700000000",
		"address":       "Rue 12",
		"city":          "Abidjan",
		"total":         70,
		"items": []map[string]any{
			{"id": 2, "name": "Igname", "price": 35, "in_stock": true, "quantity": 2},
		},
		"payment_method": "cash",
	}
}

func TestHealthAlways200(t *testing.T) {
	srv := newTestServer(t, "", false)

	resp := srv.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.DBReady)
}

func TestListProductsPublic(t *testing.T) {
	srv := newTestServer(t, "secret", true)

	resp := srv.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decode[[]entity.Product](t, resp)
	require.Len(t, products, 6)
	assert.Equal(t, "Attiéké Frais", products[0].Name)
}

func TestListProductsSurvivesOutage(t *testing.T) {
	srv := newTestServer(t, "", true)
	srv.productRepo.unavailable = true

	resp := srv.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decode[[]entity.Product](t, resp)
	assert.Len(t, products, 6, "fallback mirror keeps the catalog browsable")
}

func TestAdminGuard(t *testing.T) {
	srv := newTestServer(t, "secret", true)

	t.Run("missing token", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/products", "", productPayload())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Len(t, srv.productRepo.products, 6, "no side effects")
	})

	t.Run("wrong token", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/products", "nope", productPayload())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("correct token", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/products", "secret", productPayload())
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("orders are guarded too", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/api/orders", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOpenModeWithoutConfiguredSecret(t *testing.T) {
	srv := newTestServer(t, "", true)

	resp := srv.do(t, http.MethodPost, "/api/products", "", productPayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := decode[ProductResponse](t, resp)
	assert.True(t, created.Success)
	assert.Equal(t, int64(7), created.Product.ID)
	assert.Nil(t, created.Persisted, "flag omitted on durable writes")
}

func TestCreateProductAcceptsDecimalComma(t *testing.T) {
	srv := newTestServer(t, "", true)

	payload := productPayload()
	payload["price"] = "12,50"
	resp := srv.do(t, http.MethodPost, "/api/products", "", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := decode[ProductResponse](t, resp)
	assert.Equal(t, 12.5, created.Product.Price)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	srv := newTestServer(t, "", true)

	payload := productPayload()
	payload["price"] = "abc"
	resp := srv.do(t, http.MethodPost, "/api/products", "", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "invalid_price", body.Error)
	assert.Len(t, srv.productRepo.products, 6, "nothing was created")
}

func TestCreateProductDuringOutageFlagsNonPersisted(t *testing.T) {
	srv := newTestServer(t, "", true)
	srv.productRepo.unavailable = true

	resp := srv.do(t, http.MethodPost, "/api/products", "", productPayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := decode[ProductResponse](t, resp)
	assert.True(t, created.Success)
	require.NotNil(t, created.Persisted)
	assert.False(t, *created.Persisted)
	assert.Equal(t, int64(7), created.Product.ID, "max mirror id + 1")
}

func TestUpdateProduct(t *testing.T) {
	srv := newTestServer(t, "", true)

	t.Run("happy path", func(t *testing.T) {
		payload := productPayload()
		payload["name"] = "Igname Blanc"
		resp := srv.do(t, http.MethodPut, "/api/products/2", "", payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		updated := decode[ProductResponse](t, resp)
		assert.Equal(t, "Igname Blanc", updated.Product.Name)
		assert.Equal(t, "Igname Blanc", srv.productRepo.products[2].Name)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := srv.do(t, http.MethodPut, "/api/products/abc", "", productPayload())
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_id", decode[ErrorResponse](t, resp).Error)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := srv.do(t, http.MethodPut, "/api/products/99", "", productPayload())
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteProduct(t *testing.T) {
	srv := newTestServer(t, "", true)

	resp := srv.do(t, http.MethodDelete, "/api/products/5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[DeleteResponse](t, resp)
	assert.True(t, body.Success)
	assert.Nil(t, body.Persisted)
	assert.NotContains(t, srv.productRepo.products, int64(5))
}

func TestDeleteProductDuringOutage(t *testing.T) {
	srv := newTestServer(t, "", true)
	srv.productRepo.unavailable = true

	resp := srv.do(t, http.MethodDelete, "/api/products/5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[DeleteResponse](t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, body.Persisted)
	assert.False(t, *body.Persisted)
}

func TestCheckoutRoundTrip(t *testing.T) {
	srv := newTestServer(t, "admin", true)

	resp := srv.do(t, http.MethodPost, "/api/orders", "", orderPayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := decode[OrderCreatedResponse](t, resp)
	assert.True(t, created.Success)
	assert.Equal(t, int64(1), created.OrderID)

	listResp := srv.do(t, http.MethodGet, "/api/orders", "admin", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	orders := decode[[]entity.Order](t, listResp)
	require.Len(t, orders, 1)
	assert.Equal(t, 70.0, orders[0].Total)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Igname", orders[0].Items[0].Name)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}

func TestCheckoutValidation(t *testing.T) {
	srv := newTestServer(t, "", true)

	payload := orderPayload()
	delete(payload, "phone")
	resp := srv.do(t, http.MethodPost, "/api/orders", "", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, srv.orderRepo.orders)
}

func TestCheckoutFailsLoudlyDuringOutage(t *testing.T) {
	srv := newTestServer(t, "", true)
	srv.orderRepo.unavailable = true

	resp := srv.do(t, http.MethodPost, "/api/orders", "", orderPayload())
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "order_create_failed", body.Error)
}
