package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "validation_error", "bad answers", []map[string]string{{"field": "agua", "issue": "must_be_boolean"}})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" || body.Error.Message != "bad answers" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details")
	}
}

func TestInternalMapsContextErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()

	cases := []struct {
		err  error
		want int
	}{
		{err: context.DeadlineExceeded, want: http.StatusRequestTimeout},
		{err: fmt.Errorf("list: %w", context.Canceled), want: http.StatusRequestTimeout},
		{err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			Internal(c, "failed", tc.err)
		})
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
		if resp.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, resp.Code)
		}
	}
}
