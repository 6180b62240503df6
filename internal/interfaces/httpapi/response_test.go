package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	return body
}

func TestWriteSuccess_DataOnly(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestWriteError_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "invalid input keeps message",
			err:         fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput),
			wantCode:    http.StatusBadRequest,
			wantStatus:  "INVALID_ARGUMENT",
			wantMessage: "invalid input: bad payload",
		},
		{
			name:        "not found",
			err:         crerr.Wrap(usecase.ErrNotFound, "team 7"),
			wantCode:    http.StatusNotFound,
			wantStatus:  "NOT_FOUND",
			wantMessage: "team 7: resource not found",
		},
		{
			name:        "dependency unavailable",
			err:         crerr.Mark(crerr.New("sportmonks: 503"), usecase.ErrDependencyUnavailable),
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "UNAVAILABLE",
			wantMessage: "sportmonks: 503",
		},
		{
			name:       "canceled",
			err:        crerr.Wrap(context.Canceled, "list matches"),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "CANCELLED",
		},
		{
			name:        "unknown is masked",
			err:         crerr.New("pq: connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantStatus:  "INTERNAL",
			wantMessage: internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tt.err)
			require.Equal(t, tt.wantCode, rec.Code)

			errorObj, ok := decodeEnvelope(t, rec)["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, errorObj["status"])
			assert.EqualValues(t, tt.wantCode, errorObj["code"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorObj["message"])
			}
		})
	}
}
