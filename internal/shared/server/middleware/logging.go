package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate entities.
const (
	FamilyIDKey     = "familyId"
	AssessmentIDKey = "assessmentId"
	GoalIDKey       = "goalId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"mentor_id":   MentorIDFromContext(c),
			"client_ip":   c.ClientIP(),
		}
		for _, key := range []struct{ ctx, log string }{
			{FamilyIDKey, "family_id"},
			{AssessmentIDKey, "assessment_id"},
			{GoalIDKey, "goal_id"},
			{"error", "error"},
		} {
			if v := contextString(c, key.ctx); v != "" {
				fields[key.log] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
