package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"patent-insight-backend/models"
	"patent-insight-backend/services"

	"github.com/gin-gonic/gin"
)

func queryRouter(store *stubStore, embedder *stubEmbedder, gen *stubGenerator, t *testing.T) *gin.Engine {
	t.Helper()
	retrieval := services.NewRetrievalService(store, embedder, gen, routeTestConfig(t))
	router := gin.New()
	SetupQueryRoutes(router, retrieval)
	return router
}

func postQuery(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryEmptyQuestion(t *testing.T) {
	store := newStubStore()
	router := queryRouter(store, &stubEmbedder{}, &stubGenerator{}, t)

	for _, body := range []string{`{}`, `{"question": ""}`, `{"question": "   "}`, `not json`} {
		w := postQuery(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %q: invalid JSON response: %v", body, err)
		}
		if resp["error"] != "No question provided." {
			t.Errorf("body %q: error = %q", body, resp["error"])
		}
	}

	if store.searchCalls != 0 {
		t.Errorf("rejected requests reached the store: %d searches", store.searchCalls)
	}
}

func TestQueryReturnsAnswerAndSources(t *testing.T) {
	store := newStubStore()
	store.searchResults = []models.SearchResult{
		{Chunk: models.StoredChunk{ID: "doc.pdf:1:0", Text: "relevant text"}, Distance: 0.1},
	}
	gen := &stubGenerator{reply: "a grounded answer"}
	router := queryRouter(store, &stubEmbedder{}, gen, t)

	w := postQuery(router, `{"question": "What is claimed?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.QueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "a grounded answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "doc.pdf:1:0" {
		t.Errorf("sources = %v", resp.Sources)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestQueryNoResultsAnswer(t *testing.T) {
	gen := &stubGenerator{}
	router := queryRouter(newStubStore(), &stubEmbedder{}, gen, t)

	w := postQuery(router, `{"question": "Anything at all?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp models.QueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != services.NoInfoAnswer {
		t.Errorf("answer = %q", resp.Answer)
	}
	if gen.calls != 0 {
		t.Errorf("generator called with no retrieved context: %d calls", gen.calls)
	}
}
