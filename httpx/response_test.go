package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation_failed" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestJSONNilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		ID int `json:"id"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":4}`))
	if err := DecodeJSON(r, &dst); err != nil || dst.ID != 4 {
		t.Fatalf("decode: %v %+v", err, dst)
	}
	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(empty, &dst); err != nil {
		t.Fatalf("empty body: %v", err)
	}
	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(bad, &dst); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestIDParam(t *testing.T) {
	cases := map[string]struct {
		url  string
		want uint
		ok   bool
	}{
		"query":    {"/x?id=12", 12, true},
		"missing":  {"/x", 0, false},
		"zero":     {"/x?id=0", 0, false},
		"negative": {"/x?id=-1", 0, false},
		"garbage":  {"/x?id=abc", 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := IDParam(httptest.NewRequest(http.MethodGet, tc.url, nil), "id")
			if got != tc.want || ok != tc.ok {
				t.Fatalf("IDParam(%s) = %d,%v want %d,%v", tc.url, got, ok, tc.want, tc.ok)
			}
		})
	}
}
