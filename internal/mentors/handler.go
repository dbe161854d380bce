package mentors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/middleware"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	mentorID := middleware.MentorIDFromContext(c)
	if mentorID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	mentor, err := h.Svc.GetByID(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if claimed, ok := fromClaims(c, mentorID); ok {
				respond.OK(c, claimed)
				return
			}
			respond.Error(c, http.StatusNotFound, "not_found", "mentor not found", nil)
			return
		}
		respond.Internal(c, "failed to load mentor", err)
		return
	}
	respond.OK(c, mentor)
}

// fromClaims builds a profile from the token when no row exists yet.
func fromClaims(c *gin.Context, mentorID string) (Mentor, bool) {
	email := middleware.MentorEmailFromContext(c)
	if email == "" {
		return Mentor{}, false
	}
	return Mentor{
		ID:         mentorID,
		Email:      email,
		FullName:   middleware.MentorNameFromContext(c),
		PictureURL: middleware.MentorPictureFromContext(c),
	}, true
}
