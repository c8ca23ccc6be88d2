package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"patent-insight-backend/internal/telemetry"
	"patent-insight-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VectorStore persists (id, text, metadata, embedding) tuples and supports
// the three access patterns the pipelines need: existence by id, fetch by
// document, and nearest-neighbor search.
type VectorStore interface {
	Upsert(ctx context.Context, records []models.StoredChunk) error
	AllIDs(ctx context.Context) (map[string]struct{}, error)
	ByFilename(ctx context.Context, filenameKey string) ([]models.StoredChunk, error)
	// Search returns the k records nearest to vector by cosine distance,
	// ascending. A non-empty filenameKey restricts the scan to one document.
	Search(ctx context.Context, vector []float32, k int, filenameKey string) ([]models.SearchResult, error)
}

// MongoVectorStore keeps chunk records in one MongoDB collection keyed by
// chunk id. Nearest-neighbor search is a brute-force in-process scan over
// the stored vectors; the corpus here is small enough that an index-backed
// ANN search is not worth the operational cost.
type MongoVectorStore struct {
	collection *mongo.Collection
	metrics    *telemetry.Metrics
}

func NewMongoVectorStore(collection *mongo.Collection, metrics *telemetry.Metrics) *MongoVectorStore {
	return &MongoVectorStore{
		collection: collection,
		metrics:    metrics,
	}
}

// Upsert writes records keyed by chunk id. Re-writing an existing id is a
// no-op content-wise since records are immutable; upsert semantics keep
// concurrent ingestion of the same file from failing on duplicate keys.
func (vs *MongoVectorStore) Upsert(ctx context.Context, records []models.StoredChunk) error {
	if len(records) == 0 {
		return nil
	}

	batch := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": rec.ID}).
			SetUpdate(bson.M{"$set": rec}).
			SetUpsert(true))
	}

	_, err := vs.collection.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}
	return nil
}

// AllIDs returns the full set of stored chunk ids, used by ingestion dedup.
func (vs *MongoVectorStore) AllIDs(ctx context.Context) (map[string]struct{}, error) {
	cursor, err := vs.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk ids: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		ids[doc.ID] = struct{}{}
	}
	return ids, cursor.Err()
}

// ByFilename returns all chunks of one document in store-return order.
// No page/sequence sort is applied; callers concatenate as returned.
func (vs *MongoVectorStore) ByFilename(ctx context.Context, filenameKey string) ([]models.StoredChunk, error) {
	cursor, err := vs.collection.Find(ctx, bson.M{"filename_key": filenameKey})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []models.StoredChunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode document chunks: %w", err)
	}
	return chunks, nil
}

func (vs *MongoVectorStore) Search(ctx context.Context, vector []float32, k int, filenameKey string) ([]models.SearchResult, error) {
	filter := bson.M{}
	if filenameKey != "" {
		filter["filename_key"] = filenameKey
	}

	cursor, err := vs.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.SearchResult
	for cursor.Next(ctx) {
		var chunk models.StoredChunk
		if err := cursor.Decode(&chunk); err != nil {
			continue
		}
		if len(chunk.Vector) == 0 {
			continue
		}
		results = append(results, models.SearchResult{
			Chunk:    chunk,
			Distance: CosineDistance(vector, chunk.Vector),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > k {
		results = results[:k]
	}

	if vs.metrics != nil {
		vs.metrics.RecordVectorSearch(filenameKey != "")
	}

	return results, nil
}

// CosineDistance returns 1 - cosine similarity of a and b. Mismatched or
// zero-norm vectors are treated as maximally dissimilar within [0, 2].
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
