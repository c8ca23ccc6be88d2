package ai

import (
	"context"
	"encoding/json"
	"time"

	"patent-insight-backend/internal/logger"
	"patent-insight-backend/utils"

	"github.com/redis/go-redis/v9"
)

// TextEmbedder is the embedding surface the cache wraps.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CachedEmbedder caches embedding vectors in Redis keyed by a hash of the
// text. Chunk text is immutable once stored, so a long TTL is safe; the
// cache only saves repeat API calls, correctness never depends on it.
type CachedEmbedder struct {
	inner TextEmbedder
	rdb   *redis.Client
	model string
	ttl   time.Duration
}

func NewCachedEmbedder(inner TextEmbedder, rdb *redis.Client, model string) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		rdb:   rdb,
		model: model,
		ttl:   30 * 24 * time.Hour,
	}
}

func (ce *CachedEmbedder) cacheKey(text string) string {
	return "emb:" + ce.model + ":" + utils.SHA256Hex(text)
}

func (ce *CachedEmbedder) lookup(ctx context.Context, text string) []float32 {
	raw, err := ce.rdb.Get(ctx, ce.cacheKey(text)).Bytes()
	if err != nil {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil
	}
	return vec
}

func (ce *CachedEmbedder) store(ctx context.Context, text string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	// Fail open: a cache write error never fails the embedding call.
	if err := ce.rdb.Set(ctx, ce.cacheKey(text), raw, ce.ttl).Err(); err != nil {
		logger.Debug("embedding cache write failed", "error", err)
	}
}

func (ce *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec := ce.lookup(ctx, text); vec != nil {
		return vec, nil
	}

	vec, err := ce.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	ce.store(ctx, text, vec)
	return vec, nil
}

func (ce *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vec := ce.lookup(ctx, text); vec != nil {
			vectors[i] = vec
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}

	if len(missing) > 0 {
		fresh, err := ce.inner.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, vec := range fresh {
			vectors[missingIdx[j]] = vec
			ce.store(ctx, missing[j], vec)
		}
	}

	return vectors, nil
}
