package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/services"
)

type ReportHandler struct {
	svc *services.ReportService
	loc *time.Location
	now func() time.Time
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc, loc: time.Local, now: time.Now}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet)
		return
	}
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "dashboard_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Daily reports on ?date=YYYY-MM-DD, today when omitted.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet)
		return
	}
	day := h.now().In(h.loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		t, err := time.ParseInLocation(models.DeadlineLayout, raw, h.loc)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
			return
		}
		day = t
	}
	rep, err := h.svc.Daily(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, err, "report_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}
