package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/commcentre/internal/db"
	"github.com/diewo77/commcentre/internal/handlers"
	"github.com/diewo77/commcentre/internal/services"
	"github.com/diewo77/commcentre/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(gdb)
	catalog := services.NewMemoryCatalog(st)
	inventory := services.NewInventoryService(st, catalog)
	return New(Deps{
		DB:       gdb,
		Products: handlers.NewProductHandler(inventory),
		POS:      handlers.NewPOSHandler(services.NewCartService(st, catalog), inventory),
		Jobs:     handlers.NewJobHandler(services.NewJobService(st, "LK")),
		Reports:  handlers.NewReportHandler(services.NewReportService(st, 5)),
		Export:   handlers.NewExportHandler(services.NewExportService(st)),
	})
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestRoutesMounted(t *testing.T) {
	h := newTestRouter(t)
	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/products", http.StatusOK},
		{http.MethodGet, "/pos/cart", http.StatusOK},
		{http.MethodGet, "/pos/products", http.StatusOK},
		{http.MethodPost, "/pos/checkout", http.StatusBadRequest},
		{http.MethodGet, "/pos/checkout", http.StatusMethodNotAllowed},
		{http.MethodPost, "/pos/cart/close", http.StatusBadRequest},
		{http.MethodGet, "/jobs", http.StatusOK},
		{http.MethodGet, "/jobs/board", http.StatusOK},
		{http.MethodGet, "/dashboard", http.StatusOK},
		{http.MethodGet, "/reports/daily?date=2026-01-01", http.StatusOK},
		{http.MethodGet, "/export", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d got %d (%s)", tc.method, tc.path, tc.want, w.Code, strings.TrimSpace(w.Body.String()))
		}
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("body = %s", w.Body.String())
	}
}
