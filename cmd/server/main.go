package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jcmexdev/osouk/internal/config"
	"github.com/jcmexdev/osouk/internal/core/fallback"
	"github.com/jcmexdev/osouk/internal/core/service"
	"github.com/jcmexdev/osouk/internal/infra/httpx"
	"github.com/jcmexdev/osouk/internal/infra/storesql"
	"github.com/jcmexdev/osouk/internal/pkg/cache"
	"github.com/jcmexdev/osouk/internal/pkg/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.LogLevel)

	ctx := context.Background()

	shutdown, err := telemetry.SetupTracer(ctx, "osouk-storefront", cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("tracer setup failed, continuing without export", "error", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	store, err := storesql.Open(storesql.Config{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN,
		InitAttempts: cfg.InitAttempts,
		InitDelay:    cfg.InitDelay,
	})
	if err != nil {
		slog.Error("store open failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var productCache cache.Cache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedisCache(cfg.RedisAddr, "osouk")
	}

	mirror := fallback.NewMirror()
	products := service.NewProductService(store.Products(), mirror, productCache)
	orders := service.NewOrderService(store.Orders())

	// Supervised background initialization: the server below starts serving
	// immediately, answering catalog reads from the mirror until the store
	// is ready. On success the mirror is warmed from the persisted state.
	go func() {
		_ = store.InitWithRetry(ctx, func(ctx context.Context) {
			products.List(ctx)
		})
	}()

	handler := httpx.NewHandler(products, orders, store.Ready)
	router := httpx.NewRouter(handler, httpx.RouterConfig{
		AdminToken:  cfg.AdminToken,
		ServeStatic: cfg.IsProduction(),
		StaticDir:   cfg.StaticDir,
	})

	addr := ":" + cfg.Port
	slog.Info("storefront listening", "addr", addr, "env", cfg.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
