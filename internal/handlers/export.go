package handlers

import (
	"bytes"
	"net/http"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export streams a full backup as ?format=json (default) or xlsx.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.ExportJSON
	}
	if format != services.ExportJSON && format != services.ExportXLSX {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_format", nil)
		return
	}
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "export_failed")
		return
	}

	// Render fully before writing headers so a failure can still be a JSON error.
	var buf bytes.Buffer
	contentType := "application/json"
	if format == services.ExportXLSX {
		contentType = xlsxContentType
		err = services.WriteXLSX(&buf, snap)
	} else {
		err = services.WriteJSON(&buf, snap)
	}
	if err != nil {
		writeServiceError(w, r, err, "export_failed")
		return
	}
	httpx.Attachment(w, contentType, services.FileName(format, snap.ExportedAt))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		_ = err
	}
}
