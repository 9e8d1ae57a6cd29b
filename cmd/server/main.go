package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/db"
	"github.com/diewo77/commcentre/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed the demo catalog and exit")
	exportFlag      = flag.String("export", "", "Write a backup to `path` (.json or .xlsx) and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	config.SetLogLevel(cfg.App.LogLevel)
	log := config.GetLogger()

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.Migrate(dbConn, cfg.Database); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed successfully")
		return
	}

	ctx := context.Background()
	if *seedOnlyFlag || cfg.Database.Seed {
		n, err := db.Seed(ctx, dbConn)
		if err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
		log.WithField("products", n).Info("demo catalog seeded")
		if *seedOnlyFlag {
			return
		}
	}

	app := NewApp(ctx, cfg, dbConn)
	closeApp := func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("closing redis")
		}
	}
	defer closeApp()

	if *exportFlag != "" {
		if err := runExport(ctx, app, *exportFlag); err != nil {
			log.WithError(err).Fatal("export failed")
		}
		log.WithField("path", *exportFlag).Info("backup written")
		return
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":            srv.Addr,
			"driver":          cfg.Database.Driver,
			"atomic_checkout": cfg.App.AtomicCheckout,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			closeApp()
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped gracefully")
}

// runExport writes a backup to path and closes app, whatever the outcome.
func runExport(ctx context.Context, app *App, path string) error {
	err := exportTo(ctx, app.Export, path)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}

// exportTo writes a backup to path, picking the format from its extension.
func exportTo(ctx context.Context, svc *services.ExportService, path string) error {
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), "."+services.ExportXLSX) {
		err = services.WriteXLSX(f, snap)
	} else {
		err = services.WriteJSON(f, snap)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
