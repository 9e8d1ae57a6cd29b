package db

import (
	"context"
	"testing"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/models"
)

func openMemory(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{Driver: DriverSQLite, DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := openMemory(t)
	d, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(d, cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"products", "sales", "sale_items", "jobs"} {
		if !d.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSeedIdempotent(t *testing.T) {
	cfg := openMemory(t)
	d, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(d); err != nil {
		t.Fatal(err)
	}
	first, err := Seed(context.Background(), d)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first != len(demoCatalog) {
		t.Fatalf("first seed added %d, want %d", first, len(demoCatalog))
	}
	second, err := Seed(context.Background(), d)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second != 0 {
		t.Fatalf("second seed added %d, want 0", second)
	}
	var count int64
	d.Model(&models.Product{}).Count(&count)
	if count != int64(len(demoCatalog)) {
		t.Fatalf("expected %d products got %d", len(demoCatalog), count)
	}
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"postgres://u:p@localhost:5432/shop", "postgres://u:p@localhost:5432/shop"},
		{` "host=db  user=shop dbname=shop" `, "host=db user=shop dbname=shop sslmode=disable"},
		{"host=db user=shop dbname=shop sslmode=require", "host=db user=shop dbname=shop sslmode=require"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=db port=5432 user=shop password=secret dbname=commcentre sslmode=disable")
	want := "postgres://shop:secret@db:5432/commcentre?sslmode=disable"
	if got != want {
		t.Fatalf("ToURLDSN = %q, want %q", got, want)
	}
	if got := ToURLDSN("host=db"); got != "host=db" {
		t.Fatalf("incomplete DSN should be returned unchanged, got %q", got)
	}
}

func TestMaskDSN(t *testing.T) {
	if got := maskDSN("host=db password=secret dbname=x"); got != "host=db password=*** dbname=x" {
		t.Errorf("maskDSN kv = %q", got)
	}
	if got := maskDSN("postgres://shop:secret@db:5432/x"); got != "postgres://shop:xxxxx@db:5432/x" {
		t.Errorf("maskDSN url = %q", got)
	}
}
