package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"patent-insight-backend/services"

	"github.com/gin-gonic/gin"
)

func uploadRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := routeTestConfig(t)
	ingestion := services.NewIngestionService(newStubStore(), &stubEmbedder{}, cfg, nil)
	router := gin.New()
	SetupDocumentRoutes(router, cfg, ingestion)
	return router
}

func postUpload(router *gin.Engine, fieldName, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile(fieldName, filename)
		if err != nil {
			panic(err)
		}
		part.Write(content)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadReadinessProbe(t *testing.T) {
	router := uploadRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["message"] != "Upload endpoint ready" {
		t.Errorf("message = %q", resp["message"])
	}
}

func TestUploadMissingFile(t *testing.T) {
	router := uploadRouter(t)

	w := postUpload(router, "file", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "No file or filename provided." {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestUploadWrongFieldName(t *testing.T) {
	router := uploadRouter(t)

	w := postUpload(router, "document", "patent.pdf", []byte("content"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router := uploadRouter(t)

	w := postUpload(router, "file", "notes.txt", []byte("plain text"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Only PDF files (.pdf extension) are allowed." {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestUploadRejectsPathTraversal(t *testing.T) {
	router := uploadRouter(t)

	w := postUpload(router, "file", "..evil.pdf", []byte("content"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadInvalidPDFContent(t *testing.T) {
	router := uploadRouter(t)

	// saved fine, but unparseable as a PDF
	w := postUpload(router, "file", "broken.pdf", []byte("not actually a pdf"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Server error during file processing." {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"patent.pdf", "My Patent (v2).PDF", "claims_2023.pdf"}
	for _, name := range valid {
		if err := validateFilename(name); err != nil {
			t.Errorf("validateFilename(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"notes.txt", "archive.zip", "..secret.pdf", "a/b.pdf", "noext"}
	for _, name := range invalid {
		if err := validateFilename(name); err == nil {
			t.Errorf("validateFilename(%q) = nil, want error", name)
		}
	}
}
