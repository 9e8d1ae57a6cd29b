package main

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/handlers"
	"github.com/diewo77/commcentre/internal/server"
	"github.com/diewo77/commcentre/internal/services"
	"github.com/diewo77/commcentre/internal/store"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the services and the HTTP handler built from one configuration.
type App struct {
	Store     *store.Store
	Catalog   services.Catalog
	Inventory *services.InventoryService
	Carts     *services.CartService
	Jobs      *services.JobService
	Reports   *services.ReportService
	Export    *services.ExportService
	Handler   http.Handler

	redis  *redis.Client
	closed bool
}

// NewApp wires services on top of dbConn. The catalog lives in Redis when an
// address is configured and reachable, in process memory otherwise.
func NewApp(ctx context.Context, cfg *config.Config, dbConn *gorm.DB) *App {
	st := store.New(dbConn)
	app := &App{Store: st}
	app.Catalog = app.newCatalog(ctx, cfg.Redis, st)

	app.Inventory = services.NewInventoryService(st, app.Catalog)
	app.Carts = services.NewCartService(st, app.Catalog, services.WithAtomicCheckout(cfg.App.AtomicCheckout))
	app.Jobs = services.NewJobService(st, cfg.App.PhoneRegion)
	app.Reports = services.NewReportService(st, cfg.App.LowStockThreshold)
	app.Export = services.NewExportService(st)

	app.Handler = server.New(server.Deps{
		DB:       dbConn,
		Products: handlers.NewProductHandler(app.Inventory),
		POS:      handlers.NewPOSHandler(app.Carts, app.Inventory),
		Jobs:     handlers.NewJobHandler(app.Jobs),
		Reports:  handlers.NewReportHandler(app.Reports),
		Export:   handlers.NewExportHandler(app.Export),
	})
	return app
}

func (a *App) newCatalog(ctx context.Context, rc config.RedisConfig, st *store.Store) services.Catalog {
	log := config.GetLogger()
	if !rc.Enabled() {
		return services.NewMemoryCatalog(st)
	}
	client := redis.NewClient(&redis.Options{Addr: rc.Address, Password: rc.Password, DB: rc.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		config.LogError(log, "main", "newCatalog", "redis ping", map[string]any{"address": rc.Address}, err)
		log.Warn("falling back to in-memory catalog")
		_ = client.Close()
		return services.NewMemoryCatalog(st)
	}
	log.WithField("address", rc.Address).Info("catalog cache on redis")
	a.redis = client
	return services.NewRedisCatalog(client, st, rc.CatalogTTL)
}

// Close releases the Redis connection, if any. Later calls do nothing.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
