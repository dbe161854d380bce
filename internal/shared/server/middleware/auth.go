package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/auth"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/respond"
)

const (
	mentorIDKey      = "mentorId"
	mentorEmailKey   = "mentorEmail"
	mentorNameKey    = "mentorName"
	mentorPictureKey = "mentorPicture"

	devMentorHeader = "X-Mentor-Id"
)

var publicPrefixes = []string{
	"/api/v1/auth/google/",
	"/api/v1/health",
	"/metrics",
}

// Auth validates bearer JWTs and stores the mentor identity in context.
// Dev-like environments also accept an X-Mentor-Id header.
func Auth(env string) gin.HandlerFunc {
	allowDevHeader := env == "dev" || env == "local"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			token, ok := bearerToken(authHeader)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			setIdentity(c, claims)
			c.Next()
			return
		}

		if allowDevHeader {
			if devID := strings.TrimSpace(c.GetHeader(devMentorHeader)); devID != "" {
				c.Set(mentorIDKey, "dev:"+devID)
				c.Next()
				return
			}
		}

		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func setIdentity(c *gin.Context, claims auth.Claims) {
	c.Set(mentorIDKey, claims.Sub)
	if claims.Email != "" {
		c.Set(mentorEmailKey, claims.Email)
	}
	if claims.Name != "" {
		c.Set(mentorNameKey, claims.Name)
	}
	if claims.Picture != "" {
		c.Set(mentorPictureKey, claims.Picture)
	}
}

// MentorIDFromContext fetches the mentor ID set by the auth middleware.
func MentorIDFromContext(c *gin.Context) string {
	return contextString(c, mentorIDKey)
}

// MentorEmailFromContext fetches the mentor email from the token, if any.
func MentorEmailFromContext(c *gin.Context) string {
	return contextString(c, mentorEmailKey)
}

// MentorNameFromContext fetches the mentor display name from the token, if any.
func MentorNameFromContext(c *gin.Context) string {
	return contextString(c, mentorNameKey)
}

// MentorPictureFromContext fetches the mentor picture URL from the token, if any.
func MentorPictureFromContext(c *gin.Context) string {
	return contextString(c, mentorPictureKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
