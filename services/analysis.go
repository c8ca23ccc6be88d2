package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/models"
)

// ErrDocumentNotFound signals an analyze request for an unknown document id.
var ErrDocumentNotFound = errors.New("document not found")

const (
	noveltyFallbackScore = 60
	excerptLimit         = 200

	summaryPrefixChars = 5000
	noveltyPrefixChars = 3000
	issuesPrefixChars  = 4000

	missingKeySummary = "Summary generation requires Google API key to be configured."
	missingKeyNotice  = "API key not configured for detailed analysis"
)

// AnalysisService builds a structured analysis of one ingested document:
// four independent LLM prompts over the reconstructed text plus a
// whole-corpus similarity search.
type AnalysisService struct {
	store     VectorStore
	embedder  Embedder
	generator Generator
	topK      int
}

func NewAnalysisService(store VectorStore, embedder Embedder, generator Generator, cfg *config.Config) *AnalysisService {
	return &AnalysisService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		topK:      cfg.TopK,
	}
}

// AnalyzePatent fetches all chunks of the document, reconstructs its text
// and runs the analysis steps. Chunks are concatenated in store-return
// order; no page/sequence re-sort is applied. When the LLM client was never
// configured each generative step degrades to a static placeholder rather
// than failing the request.
func (s *AnalysisService) AnalyzePatent(ctx context.Context, documentID string) (*models.AnalysisResult, error) {
	decoded, err := url.QueryUnescape(documentID)
	if err != nil {
		decoded = documentID
	}
	logger.Info("analyzing document", "document_id", decoded)

	chunks, err := s.store.ByFilename(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, decoded)
	}
	logger.Info("found document chunks", "document_id", decoded, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	fullText := strings.Join(texts, "\n\n")

	first := chunks[0]
	result := &models.AnalysisResult{
		Title:     firstNonEmpty(first.Title, decoded),
		Date:      firstNonEmpty(first.Date, "Unknown Date"),
		Applicant: firstNonEmpty(first.Assignee, "Unknown Applicant"),
	}

	result.Summary, err = s.generateSummary(ctx, fullText)
	if err != nil {
		return nil, err
	}

	result.NoveltyScore, err = s.scoreNovelty(ctx, fullText)
	if err != nil {
		return nil, err
	}

	result.PotentialIssues, err = s.findIssues(ctx, fullText)
	if err != nil {
		return nil, err
	}

	result.Recommendations, err = s.suggestImprovements(ctx, fullText)
	if err != nil {
		return nil, err
	}

	result.SimilarPatents, err = s.findSimilarPatents(ctx, fullText)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AnalysisService) generateSummary(ctx context.Context, text string) (string, error) {
	if s.generator == nil {
		return missingKeySummary, nil
	}

	prompt := "Summarize the following patent proposal in 3-5 sentences:\n" +
		truncateRunes(text, summaryPrefixChars)
	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (s *AnalysisService) scoreNovelty(ctx context.Context, text string) (int, error) {
	if s.generator == nil {
		return noveltyFallbackScore, nil
	}

	prompt := "Rate the novelty of this patent on a scale of 0 to 100. " +
		"Consider technical innovation and prior art. " +
		"Return only the number:\n" + truncateRunes(text, noveltyPrefixChars)
	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("novelty scoring failed: %w", err)
	}
	return parseNoveltyScore(reply), nil
}

// parseNoveltyScore strips all non-digit characters from the model's reply
// and clamps the result into [0, 100]. A reply with no digits at all yields
// the fixed fallback score.
func parseNoveltyScore(reply string) int {
	var digits strings.Builder
	for _, r := range reply {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return noveltyFallbackScore
	}

	score, err := strconv.Atoi(digits.String())
	if err != nil {
		// More digits than fit in an int still means "over 100".
		return 100
	}
	if score > 100 {
		return 100
	}
	return score
}

func (s *AnalysisService) findIssues(ctx context.Context, text string) ([]string, error) {
	if s.generator == nil {
		return []string{missingKeyNotice}, nil
	}

	prompt := "List 3-5 potential legal, technical, or novelty issues with this patent. " +
		"Use concise bullet points:\n" + truncateRunes(text, issuesPrefixChars)
	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("issue analysis failed: %w", err)
	}
	return parseBulletList(reply), nil
}

func (s *AnalysisService) suggestImprovements(ctx context.Context, text string) ([]string, error) {
	if s.generator == nil {
		return []string{missingKeyNotice}, nil
	}

	prompt := "Suggest 3-5 specific improvements to strengthen this patent:\n" +
		truncateRunes(text, issuesPrefixChars)
	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("improvement analysis failed: %w", err)
	}
	return parseBulletList(reply), nil
}

// parseBulletList turns the model's bulleted reply into plain items.
func parseBulletList(reply string) []string {
	var items []string
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "•-* "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// findSimilarPatents embeds the full document text and searches the entire
// corpus, not just this document, for the nearest chunks. Whole-corpus scope
// mirrors the shipped behavior; see DESIGN.md for the open question.
func (s *AnalysisService) findSimilarPatents(ctx context.Context, text string) ([]models.SimilarPatent, error) {
	if s.embedder == nil {
		return []models.SimilarPatent{}, nil
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document text: %w", err)
	}

	results, err := s.store.Search(ctx, vector, s.topK, "")
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	similar := make([]models.SimilarPatent, 0, len(results))
	for _, res := range results {
		similar = append(similar, models.SimilarPatent{
			ID:         firstNonEmpty(res.Chunk.ID, "N/A"),
			Title:      firstNonEmpty(res.Chunk.Title, "Untitled"),
			Similarity: distanceToSimilarity(res.Distance),
			Date:       firstNonEmpty(res.Chunk.Date, "Unknown"),
			Assignee:   firstNonEmpty(res.Chunk.Assignee, "N/A"),
			Excerpt:    makeExcerpt(res.Chunk.Text),
		})
	}
	return similar, nil
}

// distanceToSimilarity converts a vector distance to a similarity
// percentage: max(0, 100 - distance*100), rounded to two decimals.
func distanceToSimilarity(distance float64) float64 {
	similarity := 100 - distance*100
	if similarity < 0 {
		return 0
	}
	return math.Round(similarity*100) / 100
}

// makeExcerpt truncates chunk text to 200 characters, appending an ellipsis
// only when something was cut.
func makeExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "..."
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
