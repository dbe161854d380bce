package assessments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("mentorId", c.GetHeader("X-Mentor-Id"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func send(router http.Handler, method, path, mentorID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Mentor-Id", mentorID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
			Issue string `json:"issue"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return env
}

func TestQuestionsEndpoint(t *testing.T) {
	e := newEnv(t)
	resp := send(newTestRouter(e.svc), http.MethodGet, "/api/v1/dignometro/questions", "mentor-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var questions []struct {
		ID        string `json:"id"`
		Dimension string `json:"dimension"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 10 || questions[0].ID != "moradia" || questions[9].ID != "bens_conectividade" {
		t.Fatalf("unexpected catalog: %+v", questions)
	}
}

func TestEvaluateEndpoint(t *testing.T) {
	e := newEnv(t)
	router := newTestRouter(e.svc)

	resp := send(router, http.MethodPost, "/api/v1/dignometro/evaluate", "mentor-1",
		`{"answers":{"moradia":true,"agua":true,"saneamento":false}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var eval struct {
		Score           float64        `json:"score"`
		PovertyLevel    string         `json:"povertyLevel"`
		DimensionScores map[string]int `json:"dimensionScores"`
		Recommendations []struct {
			QuestionID string `json:"questionId"`
			Priority   string `json:"priority"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &eval); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eval.PovertyLevel != "prosperidade em desenvolvimento" {
		t.Fatalf("unexpected level %q (score %v)", eval.PovertyLevel, eval.Score)
	}
	if len(eval.Recommendations) != 3 || eval.Recommendations[0].QuestionID != "saneamento" || eval.Recommendations[0].Priority != "alta" {
		t.Fatalf("unexpected recommendations: %+v", eval.Recommendations)
	}

	resp = send(router, http.MethodPost, "/api/v1/dignometro/evaluate", "mentor-1", `{"answers":{"agua":"sim","telhado":true}}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != "validation_error" || len(env.Error.Details) != 2 {
		t.Fatalf("unexpected error body: %+v", env)
	}
	if env.Error.Details[0].Field != "agua" || env.Error.Details[0].Issue != "must_be_boolean" {
		t.Fatalf("unexpected first detail: %+v", env.Error.Details[0])
	}
	if env.Error.Details[1].Field != "telhado" || env.Error.Details[1].Issue != "unknown_question" {
		t.Fatalf("unexpected second detail: %+v", env.Error.Details[1])
	}

	resp = send(router, http.MethodPost, "/api/v1/dignometro/evaluate", "mentor-1", `{"answers":[true]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for array answers, got %d", resp.Code)
	}
	if got := decodeError(t, resp).Error.Details; len(got) != 1 || got[0].Issue != "must_be_object" {
		t.Fatalf("unexpected details: %+v", got)
	}
}

func TestSubmitEndpoint(t *testing.T) {
	e := newEnv(t)
	router := newTestRouter(e.svc)
	familyID := e.approvedFamily(t, "mentor-1")
	base := "/api/v1/families/" + familyID + "/assessments"

	resp := send(router, http.MethodPut, base+"/draft", "mentor-1", `{"answers":{"moradia":true},"currentStep":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("draft: expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	resp = send(router, http.MethodGet, base+"/draft", "mentor-1", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"currentStep":1`) {
		t.Fatalf("draft get: %d %s", resp.Code, resp.Body.String())
	}

	resp = send(router, http.MethodPost, base, "mentor-1", `{"answers":{"moradia":true,"agua":false}}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d body=%s", resp.Code, resp.Body.String())
	}
	var sub struct {
		AssessmentID string  `json:"assessmentId"`
		Score        float64 `json:"score"`
		PovertyLevel string  `json:"povertyLevel"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.AssessmentID == "" || sub.Score != 5 || sub.PovertyLevel != "dignidade" {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	resp = send(router, http.MethodGet, base+"/draft", "mentor-1", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("draft should be cleared, got %d", resp.Code)
	}

	resp = send(router, http.MethodGet, "/api/v1/assessments/"+sub.AssessmentID, "mentor-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	resp = send(router, http.MethodGet, "/api/v1/assessments/"+sub.AssessmentID, "mentor-2", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d", resp.Code)
	}

	resp = send(router, http.MethodGet, base+"/latest", "mentor-1", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), sub.AssessmentID) {
		t.Fatalf("latest: %d %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitEndpointErrors(t *testing.T) {
	e := newEnv(t)
	router := newTestRouter(e.svc)
	familyID := e.approvedFamily(t, "mentor-1")

	resp := send(router, http.MethodPost, "/api/v1/families/"+familyID+"/assessments", "mentor-1", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing answers: expected 400, got %d", resp.Code)
	}

	resp = send(router, http.MethodPost, "/api/v1/families/"+familyID+"/assessments", "mentor-1", `not json`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad json: expected 400, got %d", resp.Code)
	}

	resp = send(router, http.MethodPost, "/api/v1/families/unknown/assessments", "mentor-1", `{"answers":{"agua":true}}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown family: expected 404, got %d", resp.Code)
	}

	resp = send(router, http.MethodPut, "/api/v1/families/"+familyID+"/assessments/draft", "mentor-1", `{"answers":{},"currentStep":42}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad step: expected 400, got %d", resp.Code)
	}
}

func TestSubmitRequiresApprovedFamily(t *testing.T) {
	e := newEnv(t)
	router := newTestRouter(e.svc)
	family, err := e.families.Create(context.Background(), "mentor-1", familiesInput("João"))
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	resp := send(router, http.MethodPost, "/api/v1/families/"+family.ID+"/assessments", "mentor-1", `{"answers":{"agua":true}}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if code := decodeError(t, resp).Error.Code; code != "family_not_approved" {
		t.Fatalf("expected family_not_approved, got %q", code)
	}
}
