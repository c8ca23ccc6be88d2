package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, cfg *Config) error {
	db := client.Database(cfg.DBName)

	// Chunk collection indexes. Chunk ids live in _id so uniqueness comes
	// for free; filename_key backs document-scoped retrieval and analysis.
	chunksCollection := db.Collection(cfg.ChunkCollection)
	chunkIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "filename_key", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "source_path", Value: 1}, {Key: "page", Value: 1}},
		},
	}
	_, err := chunksCollection.Indexes().CreateMany(context.Background(), chunkIndexes)
	if err != nil {
		return err
	}

	return nil
}
