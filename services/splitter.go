package services

import "strings"

// SplitText splits text into overlapping fixed-size character windows.
// Whitespace runs are collapsed first so window boundaries are stable across
// extraction quirks. size must exceed overlap; config validation enforces it.
func SplitText(text string, size, overlap int) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	if len(runes) <= size {
		return []string{normalized}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
