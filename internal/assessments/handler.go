package assessments

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
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
	rg.GET("/dignometro/questions", h.questions)
	rg.POST("/dignometro/evaluate", h.evaluate)

	rg.POST("/families/:id/assessments", h.submit)
	rg.GET("/families/:id/assessments", h.list)
	rg.GET("/families/:id/assessments/latest", h.latest)
	rg.GET("/families/:id/assessments/draft", h.getDraft)
	rg.PUT("/families/:id/assessments/draft", h.saveDraft)
	rg.GET("/assessments/:id", h.get)
}

type answersRequest struct {
	Answers     json.RawMessage `json:"answers"`
	CurrentStep *int            `json:"currentStep"`
}

func (h *Handler) questions(c *gin.Context) {
	respond.OK(c, h.Svc.Questions())
}

func (h *Handler) evaluate(c *gin.Context) {
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	eval, err := h.Svc.Preview(answers)
	if err != nil {
		writeError(c, err, "failed to evaluate answers")
		return
	}
	respond.OK(c, eval)
}

func (h *Handler) submit(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	sub, err := h.Svc.Submit(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, answers)
	if err != nil {
		writeError(c, err, "failed to submit assessment")
		return
	}
	c.Set(middleware.AssessmentIDKey, sub.AssessmentID)
	respond.Created(c, sub)
}

func (h *Handler) list(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	limit, offset := query.Page(c)
	items, err := h.Svc.List(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list assessments")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) latest(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	detail, err := h.Svc.Latest(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to load assessment")
		return
	}
	c.Set(middleware.AssessmentIDKey, detail.ID)
	respond.OK(c, detail)
}

func (h *Handler) get(c *gin.Context) {
	assessmentID := c.Param("id")
	c.Set(middleware.AssessmentIDKey, assessmentID)
	detail, err := h.Svc.Get(c.Request.Context(), middleware.MentorIDFromContext(c), assessmentID)
	if err != nil {
		writeError(c, err, "failed to load assessment")
		return
	}
	c.Set(middleware.FamilyIDKey, detail.FamilyID)
	respond.OK(c, detail)
}

func (h *Handler) getDraft(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	draft, err := h.Svc.GetDraft(c.Request.Context(), middleware.MentorIDFromContext(c), familyID)
	if err != nil {
		writeError(c, err, "failed to load draft")
		return
	}
	respond.OK(c, draft)
}

func (h *Handler) saveDraft(c *gin.Context) {
	familyID := c.Param("id")
	c.Set(middleware.FamilyIDKey, familyID)
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	answers := dignometro.AnswerSet{}
	if !isAbsent(req.Answers) {
		parsed, err := dignometro.ParseAnswersJSON(req.Answers)
		if err != nil {
			writeError(c, err, "invalid answers")
			return
		}
		answers = parsed
	}
	step := 0
	if req.CurrentStep != nil {
		step = *req.CurrentStep
	}
	draft, err := h.Svc.SaveDraft(c.Request.Context(), middleware.MentorIDFromContext(c), familyID, answers, step)
	if err != nil {
		writeError(c, err, "failed to save draft")
		return
	}
	respond.OK(c, draft)
}

// bindAnswers decodes {"answers": {...}} and validates it against the catalog.
// It writes the error response itself and reports whether to continue.
func bindAnswers(c *gin.Context) (dignometro.AnswerSet, bool) {
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return nil, false
	}
	if isAbsent(req.Answers) {
		writeError(c, &dignometro.InvalidInputError{Fields: []dignometro.FieldError{{Field: "answers", Issue: "required"}}}, "")
		return nil, false
	}
	answers, err := dignometro.ParseAnswersJSON(req.Answers)
	if err != nil {
		writeError(c, err, "invalid answers")
		return nil, false
	}
	return answers, true
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func writeError(c *gin.Context, err error, message string) {
	var invalid *dignometro.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid answers", invalid.Fields)
	case errors.Is(err, families.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, families.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "family not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
	case errors.Is(err, ErrDraftNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "draft not found", nil)
	case errors.Is(err, ErrFamilyNotApproved):
		respond.Error(c, http.StatusConflict, "family_not_approved", "family must be approved before an assessment", nil)
	default:
		respond.Internal(c, message, err)
	}
}
