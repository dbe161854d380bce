package families

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/middleware"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/query"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/families", h.create)
	rg.GET("/families", h.list)
	rg.GET("/families/:id", h.get)
	rg.PATCH("/families/:id", h.update)
	rg.POST("/families/:id/approve", h.approve)
	rg.POST("/families/:id/reject", h.reject)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	family, err := h.Svc.Create(c.Request.Context(), middleware.MentorIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to create family")
		return
	}
	c.Set(middleware.FamilyIDKey, family.ID)
	respond.Created(c, family)
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := query.Page(c)
	filter := ListFilter{
		Status: Status(strings.TrimSpace(c.Query("status"))),
		Limit:  limit,
		Offset: offset,
	}
	items, err := h.Svc.List(c.Request.Context(), middleware.MentorIDFromContext(c), filter)
	if err != nil {
		writeError(c, err, "failed to list families")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	family, err := h.Svc.GetOwned(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to load family")
		return
	}
	respond.OK(c, family)
}

func (h *Handler) update(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	family, err := h.Svc.Update(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, in)
	if err != nil {
		writeError(c, err, "failed to update family")
		return
	}
	respond.OK(c, family)
}

func (h *Handler) approve(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	family, err := h.Svc.Approve(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to approve family")
		return
	}
	respond.OK(c, family)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	var req rejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	family, err := h.Svc.Reject(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, req.Reason)
	if err != nil {
		writeError(c, err, "failed to reject family")
		return
	}
	respond.OK(c, family)
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "family not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respond.Internal(c, message, err)
	}
}
