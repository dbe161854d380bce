package documents

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/middleware"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/query"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/respond"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/families/:id/documents", h.upload)
	rg.GET("/families/:id/documents", h.list)
	rg.GET("/families/:id/documents/:documentId/content", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to upload document")
		return
	}
	respond.Created(c, doc)
}

func (h *Handler) list(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	limit, offset := query.Page(c)
	docs, err := h.Svc.List(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list documents")
		return
	}
	respond.OK(c, docs)
}

func (h *Handler) download(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	doc, rc, err := h.Svc.Open(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, c.Param("documentId"))
	if err != nil {
		writeError(c, err, "failed to open document")
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName})
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.MimeType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, families.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, families.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "family not found", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, object.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	default:
		respond.Internal(c, message, err)
	}
}
