package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/db"
	"github.com/diewo77/commcentre/internal/services"
	"github.com/xuri/excelize/v2"
)

func TestExportTo(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DatabaseConfig{Driver: db.DriverSQLite, DSN: filepath.Join(dir, "shop.db")}
	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(gdb, cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Seed(context.Background(), gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	app := NewApp(context.Background(), &config.Config{App: config.AppConfig{AtomicCheckout: true, LowStockThreshold: 5, PhoneRegion: "LK"}}, gdb)

	jsonPath := filepath.Join(dir, "backup.json")
	if err := exportTo(context.Background(), app.Export, jsonPath); err != nil {
		t.Fatalf("export json: %v", err)
	}
	if fi, err := os.Stat(jsonPath); err != nil || fi.Size() == 0 {
		t.Fatalf("json backup missing: %v", err)
	}

	xlsxPath := filepath.Join(dir, "backup.xlsx")
	if err := exportTo(context.Background(), app.Export, xlsxPath); err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Products")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("expected seeded products in sheet, got %d rows", len(rows))
	}
}

func TestNewAppFallsBackToMemoryCatalog(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: db.DriverSQLite, DSN: filepath.Join(t.TempDir(), "shop.db")}
	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	app := NewApp(context.Background(), &config.Config{Redis: config.RedisConfig{Address: "127.0.0.1:1"}}, gdb)
	defer app.Close()
	if _, ok := app.Catalog.(*services.MemoryCatalog); !ok {
		t.Fatalf("catalog = %T, want *services.MemoryCatalog", app.Catalog)
	}
	if app.Handler == nil {
		t.Fatal("handler not built")
	}
}

func TestRunExportClosesAppOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DatabaseConfig{Driver: db.DriverSQLite, DSN: filepath.Join(dir, "shop.db")}
	gdb, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(gdb, cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	app := NewApp(context.Background(), &config.Config{App: config.AppConfig{AtomicCheckout: true}}, gdb)

	err = runExport(context.Background(), app, filepath.Join(dir, "missing", "backup.json"))
	if err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
	if !app.closed {
		t.Fatal("app not closed after failed export")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
