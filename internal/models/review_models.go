package models

// Issue is one finding reported by the analysis capability for a document.
type Issue struct {
	DocumentSection string `json:"document_section"`
	Issue           string `json:"issue"`
	Severity        string `json:"severity"` // Low / Medium / High
	Suggestion      string `json:"suggestion"`
	SourceReference string `json:"source_reference"`
	ParagraphIndex  int    `json:"paragraph_index"`
}

// FileReview is the outcome of analyzing a single document.
type FileReview struct {
	File           string  `json:"file"`
	DocType        string  `json:"doc_type"`
	ReviewedFileID string  `json:"reviewed_file_id,omitempty"`
	Issues         []Issue `json:"issues"`
}

// File result statuses.
const (
	StatusReviewed = "reviewed"
	StatusFailed   = "failed"
)

// FileResult is one entry of a batch result: either a completed review or an
// error marker for that file. Entries keep submission order.
type FileResult struct {
	File           string  `json:"file"`
	Status         string  `json:"status"`
	Error          string  `json:"error,omitempty"`
	DocType        string  `json:"doc_type,omitempty"`
	ReviewedFileID string  `json:"reviewed_file_id,omitempty"`
	Issues         []Issue `json:"issues,omitempty"`
}

// CombinedReport aggregates a whole batch: the detected corporate process,
// the checklist of required documents, and the per-file results.
type CombinedReport struct {
	Process           string       `json:"process"`
	DocumentsUploaded int          `json:"documents_uploaded"`
	RequiredDocuments int          `json:"required_documents"`
	MissingDocuments  []string     `json:"missing_documents"`
	PerFileResults    []FileResult `json:"per_file_results"`
}

// ReviewResponse is the JSON body returned by POST /api/review.
type ReviewResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	ReportID string          `json:"report_id,omitempty"`
	Report   *CombinedReport `json:"report,omitempty"`
}
