package ai

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	genai "github.com/google/generative-ai-go/genai"
)

// EmbedText returns an embedding vector for a single text.
func (gc *GeminiClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.embed_text")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", gc.embeddingModel))

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.EmbeddingModel(gc.embeddingModel)
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
		if resp.Embedding == nil {
			return nil, fmt.Errorf("no embedding returned")
		}
		return resp.Embedding.Values, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, err
	}

	if gc.metrics != nil {
		gc.metrics.RecordEmbeddingRequest(gc.embeddingModel, 1)
	}

	return result.([]float32), nil
}

// EmbedBatch embeds a slice of texts in one API call, preserving order.
func (gc *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.embed_batch")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", gc.embeddingModel),
		attribute.Int("gemini.batch_size", len(texts)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.EmbeddingModel(gc.embeddingModel)
		batch := model.NewBatch()
		for _, text := range texts {
			batch.AddContent(genai.Text(text))
		}

		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
		}

		vectors := make([][]float32, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			if emb == nil {
				return nil, fmt.Errorf("no embedding returned for batch item %d", i)
			}
			vectors[i] = emb.Values
		}
		return vectors, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, err
	}

	if gc.metrics != nil {
		gc.metrics.RecordEmbeddingRequest(gc.embeddingModel, len(texts))
	}

	return result.([][]float32), nil
}
