package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

func newLimitedRouter(rules map[string]RateLimitRule, now time.Time) *gin.Engine {
	limiter := NewRateLimiter(func() time.Time { return now })
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(mentorIDKey, "dev:mentor-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: GroupDefault,
		GroupFor:     GroupByMethod,
		Limiter:      limiter,
		Rules:        rules,
	}))
	r.GET("/api/v1/families", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/families/:id/assessments", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitWritesStricterThanReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	r := newLimitedRouter(map[string]RateLimitRule{
		GroupDefault: {Rate: 5, Burst: 10},
		GroupWrite:   {Rate: 1, Burst: 2},
	}, now)

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/families", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("read %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/families/fam-1/assessments", nil))
		if resp.Code != http.StatusCreated {
			t.Fatalf("write %d expected 201, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/families/fam-1/assessments", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("write 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	r := newLimitedRouter(map[string]RateLimitRule{GroupDefault: {Rate: 1, Burst: 1}}, now)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/families", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/families", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", second.Header().Get("Retry-After"))
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(second.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if payload.Error.Details["retryAfterMs"] != float64(1000) {
		t.Fatalf("expected retryAfterMs 1000, got %v", payload.Error.Details["retryAfterMs"])
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first token")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok {
		t.Fatalf("expected bucket to be empty")
	}
	if wait != 500*time.Millisecond {
		t.Fatalf("expected 500ms wait, got %s", wait)
	}

	now = now.Add(500 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected refill after wait")
	}
}
