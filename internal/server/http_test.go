package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airshift-io/airshift/pkg/options"
)

func TestProbeAndMetricsEndpoints(t *testing.T) {
	srv := NewServer(&options.HttpOptions{Addr: ":0"})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/readyz", http.StatusOK, "ok"},
		{"/metrics", http.StatusOK, "airshift_migration"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		srv.server.Handler.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("GET %s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
		if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
			t.Errorf("GET %s: body %q does not contain %q", tt.path, rec.Body.String(), tt.wantBody)
		}
	}
}

func TestProbesRejectPost(t *testing.T) {
	srv := NewServer(&options.HttpOptions{Addr: ":0"})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz: status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
