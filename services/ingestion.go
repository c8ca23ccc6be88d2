package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/internal/telemetry"
	"patent-insight-backend/models"
)

// Embedder maps text to fixed-length numeric vectors via a remote API.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestionService composes loader, splitter, identifier, dedup, embedding
// and store into the upload pipeline.
type IngestionService struct {
	store        VectorStore
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
	metrics      *telemetry.Metrics
}

func NewIngestionService(store VectorStore, embedder Embedder, cfg *config.Config, metrics *telemetry.Metrics) *IngestionService {
	return &IngestionService{
		store:        store,
		embedder:     embedder,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		metrics:      metrics,
	}
}

// IngestPDF runs load -> split -> identify -> dedup -> embed -> store and
// returns the document's base filename as its public id. Re-ingesting an
// unchanged file inserts zero new records: the set of existing ids is the
// sole idempotence mechanism, there is no content-hash comparison, so the
// same file re-saved under a different path is treated as entirely new.
func (s *IngestionService) IngestPDF(ctx context.Context, path string) (string, error) {
	pages, err := LoadPDF(path)
	if err != nil {
		return "", err
	}
	return s.ingestPages(ctx, path, pages)
}

func (s *IngestionService) ingestPages(ctx context.Context, path string, pages []models.PageDocument) (string, error) {
	start := time.Now()

	var chunks []models.Chunk
	for _, page := range pages {
		for _, text := range SplitText(page.Text, s.chunkSize, s.chunkOverlap) {
			chunks = append(chunks, models.Chunk{
				Text: text,
				Metadata: models.ChunkMetadata{
					SourcePath: page.SourcePath,
					Page:       page.Page,
				},
			})
		}
	}
	chunks = AssignChunkIDs(chunks)
	logger.Info("processing document chunks", "path", path, "chunks", len(chunks))

	existing, err := s.store.AllIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch existing ids: %w", err)
	}

	var newChunks []models.Chunk
	for _, chunk := range chunks {
		if _, ok := existing[chunk.Metadata.ID]; !ok {
			newChunks = append(newChunks, chunk)
		}
	}

	documentID := filepath.Base(path)

	if len(newChunks) == 0 {
		logger.Info("document already exists in database", "document_id", documentID)
		if s.metrics != nil {
			s.metrics.RecordIngest(time.Since(start).Seconds(), 0, "unchanged")
		}
		return documentID, nil
	}

	if s.embedder == nil {
		return "", fmt.Errorf("embeddings unavailable: GOOGLE_API_KEY not set")
	}

	texts := make([]string, len(newChunks))
	for i, chunk := range newChunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return "", fmt.Errorf("failed to embed chunks: %w", err)
	}

	records := make([]models.StoredChunk, len(newChunks))
	for i, chunk := range newChunks {
		records[i] = models.StoredChunk{
			ID:          chunk.Metadata.ID,
			Text:        chunk.Text,
			SourcePath:  chunk.Metadata.SourcePath,
			Page:        chunk.Metadata.Page,
			Sequence:    chunk.Metadata.Sequence,
			FilenameKey: chunk.Metadata.FilenameKey,
			Vector:      vectors[i],
		}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return "", fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.Info("stored new chunks", "document_id", documentID, "new_chunks", len(records))
	if s.metrics != nil {
		s.metrics.RecordIngest(time.Since(start).Seconds(), len(records), "stored")
	}

	return documentID, nil
}
