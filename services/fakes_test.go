package services

import (
	"context"
	"fmt"

	"patent-insight-backend/models"
)

// fakeStore is an in-memory VectorStore for pipeline tests.
type fakeStore struct {
	records         map[string]models.StoredChunk
	upsertCalls     int
	searchCalls     int
	lastFilenameKey string
	// canned search results, returned regardless of the query vector
	searchResults []models.SearchResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.StoredChunk)}
}

func (f *fakeStore) Upsert(ctx context.Context, records []models.StoredChunk) error {
	f.upsertCalls++
	for _, rec := range records {
		f.records[rec.ID] = rec
	}
	return nil
}

func (f *fakeStore) AllIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(f.records))
	for id := range f.records {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeStore) ByFilename(ctx context.Context, filenameKey string) ([]models.StoredChunk, error) {
	var chunks []models.StoredChunk
	for _, rec := range f.records {
		if rec.FilenameKey == filenameKey {
			chunks = append(chunks, rec)
		}
	}
	return chunks, nil
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, k int, filenameKey string) ([]models.SearchResult, error) {
	f.searchCalls++
	f.lastFilenameKey = filenameKey
	results := f.searchResults
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// fakeEmbedder returns deterministic vectors and counts calls.
type fakeEmbedder struct {
	embedCalls int
	batchCalls int
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	return []float32{float32(len(text)), 1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = []float32{float32(len(text)), 1, 0}
	}
	return vectors, nil
}

// fakeGenerator replies with a fixed string and records prompts.
type fakeGenerator struct {
	reply   string
	prompts []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.reply == "" {
		return fmt.Sprintf("reply %d", len(f.prompts)), nil
	}
	return f.reply, nil
}
