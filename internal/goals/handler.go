package goals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
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
	rg.GET("/families/:id/goals", h.list)
	rg.POST("/families/:id/goals", h.create)
	rg.GET("/families/:id/recommendations", h.recommendations)
	rg.POST("/families/:id/recommendations/accept", h.accept)
	rg.PATCH("/goals/:id", h.update)
	rg.DELETE("/goals/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	items, err := h.Svc.List(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to list goals")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	g, err := h.Svc.Create(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, in)
	if err != nil {
		writeError(c, err, "failed to create goal")
		return
	}
	c.Set(middleware.GoalIDKey, g.ID)
	respond.Created(c, g)
}

func (h *Handler) recommendations(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	items, err := h.Svc.Recommendations(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to derive recommendations")
		return
	}
	respond.OK(c, items)
}

type acceptRequest struct {
	Keys []string `json:"keys"`
}

func (h *Handler) accept(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	var req acceptRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	result, err := h.Svc.AcceptRecommendations(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, req.Keys)
	if err != nil {
		writeError(c, err, "failed to accept recommendations")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) update(c *gin.Context) {
	goalID := c.Param("id")
	c.Set(middleware.GoalIDKey, goalID)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	g, err := h.Svc.Update(c.Request.Context(), middleware.MentorIDFromContext(c), goalID, in)
	if err != nil {
		writeError(c, err, "failed to update goal")
		return
	}
	c.Set(middleware.FamilyIDKey, g.FamilyID)
	respond.OK(c, g)
}

func (h *Handler) delete(c *gin.Context) {
	goalID := c.Param("id")
	c.Set(middleware.GoalIDKey, goalID)
	if err := h.Svc.Delete(c.Request.Context(), middleware.MentorIDFromContext(c), goalID); err != nil {
		writeError(c, err, "failed to delete goal")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, families.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, families.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "family not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "goal not found", nil)
	case errors.Is(err, ErrNoAssessment):
		respond.Error(c, http.StatusNotFound, "no_assessment", "family has no assessment yet", nil)
	default:
		respond.Internal(c, message, err)
	}
}
