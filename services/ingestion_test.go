package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/models"
)

func testConfig() *config.Config {
	return &config.Config{ChunkSize: 100, ChunkOverlap: 20, TopK: 5}
}

func testPages(path string) []models.PageDocument {
	return []models.PageDocument{
		{SourcePath: path, Page: 1, Text: strings.Repeat("claim one text ", 20)},
		{SourcePath: path, Page: 2, Text: strings.Repeat("claim two text ", 20)},
	}
}

func TestIngestPagesStoresChunks(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	svc := NewIngestionService(store, embedder, testConfig(), nil)

	docID, err := svc.ingestPages(context.Background(), "uploads/patent.pdf", testPages("uploads/patent.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if docID != "patent.pdf" {
		t.Errorf("document id = %q, want %q", docID, "patent.pdf")
	}
	if len(store.records) == 0 {
		t.Fatal("no chunks stored")
	}
	if embedder.batchCalls != 1 {
		t.Errorf("embed batch calls = %d, want 1", embedder.batchCalls)
	}
	for id, rec := range store.records {
		if len(rec.Vector) == 0 {
			t.Errorf("chunk %q stored without a vector", id)
		}
		if rec.FilenameKey != "patent.pdf" {
			t.Errorf("chunk %q filename key = %q", id, rec.FilenameKey)
		}
	}
}

func TestIngestPagesReingestIsNoop(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	svc := NewIngestionService(store, embedder, testConfig(), nil)

	pages := testPages("uploads/patent.pdf")
	if _, err := svc.ingestPages(context.Background(), "uploads/patent.pdf", pages); err != nil {
		t.Fatal(err)
	}
	stored := len(store.records)

	docID, err := svc.ingestPages(context.Background(), "uploads/patent.pdf", pages)
	if err != nil {
		t.Fatal(err)
	}
	if docID != "patent.pdf" {
		t.Errorf("document id = %q on re-ingest", docID)
	}
	if len(store.records) != stored {
		t.Errorf("re-ingest changed record count: %d -> %d", stored, len(store.records))
	}
	if embedder.batchCalls != 1 {
		t.Errorf("re-ingest called the embedder: %d batch calls", embedder.batchCalls)
	}
	if store.upsertCalls != 1 {
		t.Errorf("re-ingest wrote to the store: %d upsert calls", store.upsertCalls)
	}
}

func TestIngestPagesNilEmbedder(t *testing.T) {
	store := newFakeStore()
	svc := NewIngestionService(store, nil, testConfig(), nil)

	_, err := svc.ingestPages(context.Background(), "uploads/patent.pdf", testPages("uploads/patent.pdf"))
	if err == nil {
		t.Fatal("expected error with nil embedder")
	}
	if len(store.records) != 0 {
		t.Errorf("chunks stored despite embedding failure: %d", len(store.records))
	}
}

func TestIngestPDFMissingFile(t *testing.T) {
	svc := NewIngestionService(newFakeStore(), &fakeEmbedder{}, testConfig(), nil)

	_, err := svc.IngestPDF(context.Background(), "testdata/does-not-exist.pdf")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}
