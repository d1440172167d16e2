package httpx

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/osouk/internal/infra/httpx/middlewares"
)

// RouterConfig carries the routing knobs that come from the environment.
type RouterConfig struct {
	// AdminToken is the shared secret for the admin endpoints; empty
	// disables the check (open mode).
	AdminToken string

	// ServeStatic enables serving the prebuilt SPA from StaticDir, the
	// production setup. In development the SPA dev server proxies /api.
	ServeStatic bool
	StaticDir   string
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares.RequestTag)
	r.Use(middlewares.TraceRequests)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api", func(api chi.Router) {
		api.Get("/products", handler.ListProducts)
		api.Post("/orders", handler.CreateOrder)

		api.Group(func(admin chi.Router) {
			admin.Use(middlewares.AdminOnly(cfg.AdminToken))
			admin.Post("/products", handler.CreateProduct)
			admin.Put("/products/{id}", handler.UpdateProduct)
			admin.Delete("/products/{id}", handler.DeleteProduct)
			admin.Get("/orders", handler.ListOrders)
		})
	})

	if cfg.ServeStatic {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// spaHandler serves the built storefront: real files as-is, everything else
// falls back to index.html so client-side routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
