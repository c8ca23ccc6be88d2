package services

import (
	"fmt"
	"path/filepath"

	"patent-insight-backend/models"
)

// AssignChunkIDs annotates an ordered chunk sequence with unique, stable
// ids and a filename key. It keeps a "last page key" cursor: chunks on the
// same (source, page) as the previous chunk get an incrementing sequence,
// a page change resets the sequence to 0. Re-running on identical input
// yields identical ids, which is what ingestion dedup relies on.
func AssignChunkIDs(chunks []models.Chunk) []models.Chunk {
	lastPageKey := ""
	sequence := 0

	out := make([]models.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		pageKey := fmt.Sprintf("%s:%d", chunk.Metadata.SourcePath, chunk.Metadata.Page)
		if pageKey == lastPageKey {
			sequence++
		} else {
			sequence = 0
			lastPageKey = pageKey
		}

		chunk.Metadata.Sequence = sequence
		chunk.Metadata.ID = fmt.Sprintf("%s:%d", pageKey, sequence)
		chunk.Metadata.FilenameKey = filepath.Base(chunk.Metadata.SourcePath)
		out = append(out, chunk)
	}

	return out
}
