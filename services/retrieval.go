package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"
)

// Generator produces free text from a prompt via the remote LLM.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const answerPromptTemplate = `Answer the question based only on the following context:

%s

---

Answer the question based on the above context: %s`

// NoInfoAnswer is the canned reply when retrieval finds nothing. Absence of
// results is normal, not an error.
const NoInfoAnswer = "No relevant information found in the database."

// RetrievalService answers questions by nearest-neighbor retrieval plus a
// single LLM call.
type RetrievalService struct {
	store     VectorStore
	embedder  Embedder
	generator Generator
	topK      int
}

func NewRetrievalService(store VectorStore, embedder Embedder, generator Generator, cfg *config.Config) *RetrievalService {
	return &RetrievalService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		topK:      cfg.TopK,
	}
}

// Query embeds the question, retrieves the nearest chunks (restricted to one
// document when documentID is given), templates a prompt and calls the LLM
// once. Sources are the retrieved chunk ids in result order; no re-ranking
// beyond the store's own distance ordering is applied.
func (s *RetrievalService) Query(ctx context.Context, question, documentID string) (*models.QueryResult, error) {
	if s.embedder == nil || s.generator == nil {
		return nil, fmt.Errorf("generative features unavailable: GOOGLE_API_KEY not set")
	}

	filenameKey := ""
	if documentID != "" {
		decoded, err := url.QueryUnescape(documentID)
		if err != nil {
			decoded = documentID
		}
		filenameKey = decoded
		logger.Debug("searching within document", "document_id", decoded)
	} else {
		logger.Debug("searching across all documents")
	}

	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := s.store.Search(ctx, vector, s.topK, filenameKey)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		logger.Info("no relevant information found", "document_id", filenameKey)
		return &models.QueryResult{
			Answer:  NoInfoAnswer,
			Sources: []string{},
		}, nil
	}

	texts := make([]string, len(results))
	sources := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Chunk.Text
		sources[i] = res.Chunk.ID
	}

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(texts, "\n\n---\n\n"), question)

	answer, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &models.QueryResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}
