package server

import (
	"net/http"
	"time"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/handlers"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the handlers the router mounts. DB is used by /healthz only.
type Deps struct {
	DB       *gorm.DB
	Products *handlers.ProductHandler
	POS      *handlers.POSHandler
	Jobs     *handlers.JobHandler
	Reports  *handlers.ReportHandler
	Export   *handlers.ExportHandler
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	// Inventory. Update/Delete via /products/update & /products/delete with ?id=.
	mux.HandleFunc("/products", d.Products.Handle)
	mux.HandleFunc("/products/update", d.Products.Update)
	mux.HandleFunc("/products/delete", d.Products.Delete)

	// Point of sale. The cart is picked with the X-Cart-ID header or ?cart=.
	mux.HandleFunc("/pos/products", d.POS.Products)
	mux.HandleFunc("/pos/carts", d.POS.Open)
	mux.HandleFunc("/pos/cart", d.POS.Cart)
	mux.HandleFunc("/pos/cart/add", d.POS.Add)
	mux.HandleFunc("/pos/cart/remove", d.POS.Remove)
	mux.HandleFunc("/pos/cart/quantity", d.POS.Quantity)
	mux.HandleFunc("/pos/cart/discount", d.POS.Discount)
	mux.HandleFunc("/pos/cart/clear", d.POS.Clear)
	mux.HandleFunc("/pos/cart/close", d.POS.Close)
	mux.HandleFunc("/pos/checkout", d.POS.Checkout)

	// Print jobs
	mux.HandleFunc("/jobs", d.Jobs.Handle)
	mux.HandleFunc("/jobs/update", d.Jobs.Update)
	mux.HandleFunc("/jobs/delete", d.Jobs.Delete)
	mux.HandleFunc("/jobs/board", d.Jobs.Board)

	// Reports & backup
	mux.HandleFunc("/dashboard", d.Reports.Dashboard)
	mux.HandleFunc("/reports/daily", d.Reports.Daily)
	mux.HandleFunc("/export", d.Export.Export)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"service": "commcentre", "dashboard": "/dashboard"})
	})

	return withRecover(withLogging(mux))
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	log := config.GetLogger()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				config.GetLogger().WithFields(logrus.Fields{"path": r.URL.Path, "panic": rec}).Error("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
