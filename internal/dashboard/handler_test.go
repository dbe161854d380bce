package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
)

func TestDashboardEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(
		stubFamilies{counts: map[families.Status]int{families.StatusPending: 2}},
		stubAssessments{},
		stubGoals{},
	)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		TotalFamilies     int `json:"totalFamilies"`
		LevelDistribution []struct {
			Level string `json:"level"`
			Count int    `json:"count"`
		} `json:"levelDistribution"`
		AverageScore *float64 `json:"averageScore"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalFamilies != 2 || body.AverageScore != nil {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.LevelDistribution) != 5 || body.LevelDistribution[0].Level != "pobreza extrema" {
		t.Fatalf("unexpected distribution: %+v", body.LevelDistribution)
	}
}
