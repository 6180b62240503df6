package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(method, "/v1/leagues/8/table", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	rec := httptest.NewRecorder()
	CORS(allowed, next).ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	rec := corsRequest(t, []string{"https://reports.example.com"}, http.MethodGet, "https://reports.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://reports.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_PreflightAnsweredWithoutHandler(t *testing.T) {
	t.Parallel()

	rec := corsRequest(t, []string{"*"}, http.MethodOptions, "https://reports.example.com")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	t.Parallel()

	rec := corsRequest(t, []string{"https://allowed.example.com"}, http.MethodGet, "https://not-allowed.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}
