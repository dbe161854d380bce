package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object/local"
)

type fixture struct {
	router   *gin.Engine
	familyID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	famSvc := families.NewService(families.NewMemoryRepo())
	family, err := famSvc.Create(context.Background(), "mentor-1", families.CreateInput{ResponsibleName: "Maria"})
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	svc := NewService(local.New(t.TempDir()), NewMemoryRepo(), famSvc, "local")
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("mentorId", c.GetHeader("X-Mentor-Id"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return fixture{router: router, familyID: family.ID}
}

func uploadRequest(t *testing.T, path, mentorID, fileName string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Mentor-Id", mentorID)
	return req
}

func TestUploadListAndDownload(t *testing.T) {
	fx := newFixture(t)
	base := "/api/v1/families/" + fx.familyID + "/documents"

	resp := httptest.NewRecorder()
	fx.router.ServeHTTP(resp, uploadRequest(t, base, "mentor-1", "comprovante.txt", []byte("conta de luz")))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.Code, resp.Body.String())
	}
	var created Document
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.FileName != "comprovante.txt" || created.SizeBytes != int64(len("conta de luz")) {
		t.Fatalf("unexpected document: %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("X-Mentor-Id", "mentor-1")
	resp = httptest.NewRecorder()
	fx.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var docs []Document
	if err := json.Unmarshal(resp.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", docs)
	}

	req = httptest.NewRequest(http.MethodGet, base+"/"+created.ID+"/content", nil)
	req.Header.Set("X-Mentor-Id", "mentor-1")
	resp = httptest.NewRecorder()
	fx.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != "conta de luz" {
		t.Fatalf("unexpected content: %q", resp.Body.String())
	}
}

func TestDocumentsHiddenFromOtherMentors(t *testing.T) {
	fx := newFixture(t)
	base := "/api/v1/families/" + fx.familyID + "/documents"

	resp := httptest.NewRecorder()
	fx.router.ServeHTTP(resp, uploadRequest(t, base, "mentor-2", "a.txt", []byte("x")))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, base+"/missing/content", nil)
	req.Header.Set("X-Mentor-Id", "mentor-1")
	resp = httptest.NewRecorder()
	fx.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown document, got %d", resp.Code)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/families/"+fx.familyID+"/documents", nil)
	req.Header.Set("X-Mentor-Id", "mentor-1")
	resp := httptest.NewRecorder()
	fx.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
