package models

// SimilarPatent is one entry of the whole-corpus similarity search run
// during analysis. Similarity is a percentage derived from vector distance.
type SimilarPatent struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Date       string  `json:"date"`
	Assignee   string  `json:"assignee"`
	Excerpt    string  `json:"excerpt"`
}

// AnalysisResult is built fresh on every analyze request and never persisted.
type AnalysisResult struct {
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Applicant       string          `json:"applicant"`
	Summary         string          `json:"summary"`
	NoveltyScore    int             `json:"noveltyScore"`
	PotentialIssues []string        `json:"potentialIssues"`
	Recommendations []string        `json:"recommendations"`
	SimilarPatents  []SimilarPatent `json:"similarPatents"`
}

// QueryResult is the answer to one retrieval question, with the ids of the
// chunks that backed it.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

// UploadResponse is returned after a successful ingestion.
type UploadResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}
