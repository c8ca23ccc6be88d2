package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter    metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	TokensUsed        metric.Int64Counter
	IngestDuration    metric.Float64Histogram
	ChunksStored      metric.Int64Counter
	VectorSearches    metric.Int64Counter
	EmbeddingRequests metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("patent-insight-backend")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	ingestDuration, err := meter.Float64Histogram(
		"ingest.duration",
		metric.WithDescription("PDF ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunksStored, err := meter.Int64Counter(
		"ingest.chunks.stored",
		metric.WithDescription("New chunks persisted to the vector store"),
	)
	if err != nil {
		return nil, err
	}

	vectorSearches, err := meter.Int64Counter(
		"vectorstore.searches.total",
		metric.WithDescription("Nearest-neighbor searches run"),
	)
	if err != nil {
		return nil, err
	}

	embeddingRequests, err := meter.Int64Counter(
		"gemini.embeddings.requests",
		metric.WithDescription("Embedding API calls"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:    requestCounter,
		RequestDuration:   requestDuration,
		TokensUsed:        tokensUsed,
		IngestDuration:    ingestDuration,
		ChunksStored:      chunksStored,
		VectorSearches:    vectorSearches,
		EmbeddingRequests: embeddingRequests,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordTokensUsed records Gemini token usage
func (m *Metrics) RecordTokensUsed(tokens int64, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
	}

	m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}

// RecordIngest records one ingestion run
func (m *Metrics) RecordIngest(duration float64, newChunks int, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("ingest.status", status),
	}

	m.IngestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
	m.ChunksStored.Add(context.Background(), int64(newChunks), metric.WithAttributes(attrs...))
}

// RecordEmbeddingRequest records one embedding API call
func (m *Metrics) RecordEmbeddingRequest(model string, batchSize int) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
		attribute.Int("gemini.batch_size", batchSize),
	}

	m.EmbeddingRequests.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordVectorSearch records one nearest-neighbor search
func (m *Metrics) RecordVectorSearch(scoped bool) {
	attrs := []attribute.KeyValue{
		attribute.Bool("search.document_scoped", scoped),
	}

	m.VectorSearches.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
