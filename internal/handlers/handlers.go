// Package handlers exposes the services as a local JSON API. Handlers decode
// the request, call one service operation and serialize what it returns.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/services"
)

// flexString accepts a JSON string or a bare JSON number, so clients may send
// "12.50" or 12.5 for the same field. Parsing into numbers is left to models.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
	default:
		*f = flexString(s)
	}
	return nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// writeServiceError maps service errors to responses. Anything unexpected
// is logged and reported as a 500 with the generic code fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if v, ok := services.AsValidation(err); ok {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrJobNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrEmptyCart):
		httpx.JSONError(w, http.StatusBadRequest, "cart_empty", nil)
	case errors.Is(err, services.ErrLineIndex):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_index", nil)
	default:
		config.LogError(config.GetLogger(), "handlers", fallback, r.Method+" "+r.URL.Path, nil, err)
		httpx.JSONError(w, http.StatusInternalServerError, fallback, nil)
	}
}
