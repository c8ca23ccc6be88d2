package models

// PageDocument is the text of one page of a source PDF, before splitting.
type PageDocument struct {
	SourcePath string
	Page       int
	Text       string
}

// ChunkMetadata identifies a chunk within the corpus.
// ID = source_path ":" page ":" sequence. Sequence resets to 0 whenever
// (source_path, page) changes from the previous chunk in processing order.
type ChunkMetadata struct {
	ID          string `bson:"id" json:"id"`
	SourcePath  string `bson:"source_path" json:"source_path"`
	Page        int    `bson:"page" json:"page"`
	Sequence    int    `bson:"sequence" json:"sequence"`
	FilenameKey string `bson:"filename_key" json:"filename_key"`
}

// Chunk is a bounded span of extracted text from one page, the unit of
// embedding and retrieval.
type Chunk struct {
	Text     string        `bson:"text" json:"text"`
	Metadata ChunkMetadata `bson:"metadata" json:"metadata"`
}

// StoredChunk is a chunk plus its embedding, persisted keyed by chunk id.
// Records are created at ingestion time and never mutated or deleted.
type StoredChunk struct {
	ID          string    `bson:"_id" json:"id"`
	Text        string    `bson:"text" json:"text"`
	SourcePath  string    `bson:"source_path" json:"source_path"`
	Page        int       `bson:"page" json:"page"`
	Sequence    int       `bson:"sequence" json:"sequence"`
	FilenameKey string    `bson:"filename_key" json:"filename_key"`
	Title       string    `bson:"title,omitempty" json:"title,omitempty"`
	Date        string    `bson:"date,omitempty" json:"date,omitempty"`
	Assignee    string    `bson:"assignee,omitempty" json:"assignee,omitempty"`
	Vector      []float32 `bson:"vector" json:"-"`
}

// SearchResult pairs a stored chunk with its cosine distance from the query
// vector. Smaller distance means more similar.
type SearchResult struct {
	Chunk    StoredChunk
	Distance float64
}
