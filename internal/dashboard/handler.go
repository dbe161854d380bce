package dashboard

import (
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
	rg.GET("/dashboard", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.MentorIDFromContext(c))
	if err != nil {
		respond.Internal(c, "failed to build dashboard", err)
		return
	}
	respond.OK(c, summary)
}
