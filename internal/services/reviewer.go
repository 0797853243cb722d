package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"corporate-agent/internal/docx"
	"corporate-agent/internal/models"
	"corporate-agent/internal/storage"
	"corporate-agent/pkg/log"
)

// ReviewLLM produces compliance issues for a document, grounded on
// reference excerpts.
type ReviewLLM interface {
	Review(ctx context.Context, refs []string, docText string) ([]models.Issue, error)
}

// ContextRetriever selects the reference excerpts relevant to a document.
type ContextRetriever interface {
	Retrieve(ctx context.Context, text string, topK int) ([]Chunk, error)
}

// ArtifactStore keeps the annotated copy of a reviewed document available
// for download.
type ArtifactStore interface {
	StoreFile(src, name, kind string) (string, error)
}

// Reviewer analyzes one .docx at a time: classify, retrieve context, ask
// the model, annotate the document inline, and park the annotated copy in
// the artifact store. It implements Analyzer.
type Reviewer struct {
	retriever ContextRetriever
	llm       ReviewLLM
	artifacts ArtifactStore
	topK      int
}

// NewReviewer wires the reviewer's collaborators.
func NewReviewer(retriever ContextRetriever, llm ReviewLLM, artifacts ArtifactStore, topK int) *Reviewer {
	if topK <= 0 {
		topK = 5
	}
	return &Reviewer{
		retriever: retriever,
		llm:       llm,
		artifacts: artifacts,
		topK:      topK,
	}
}

// Analyze reviews the .docx at path and returns its findings.
func (r *Reviewer) Analyze(ctx context.Context, path string) (*models.FileReview, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	text := doc.Text()
	docType := DetectDocType(text)
	log.Debugf("🔎 Classified %s as %q", filepath.Base(path), docType)

	var refs []string
	chunks, err := r.retriever.Retrieve(ctx, text, r.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve reference context: %w", err)
	}
	for _, c := range chunks {
		refs = append(refs, c.Text)
	}

	issues, err := r.llm.Review(ctx, refs, text)
	if err != nil {
		return nil, fmt.Errorf("model review: %w", err)
	}

	paragraphs := doc.Paragraphs()
	for i := range issues {
		if issues[i].ParagraphIndex == 0 {
			issues[i].ParagraphIndex = locateParagraph(paragraphs, issues[i].DocumentSection)
		}
		note := issues[i].Suggestion
		if note == "" {
			note = issues[i].Issue
		}
		doc.Annotate(issues[i].ParagraphIndex, note)
	}

	reviewedID, err := r.saveReviewed(doc, path)
	if err != nil {
		// The findings are still useful without the annotated copy.
		log.Warnf("⚠️  Could not keep annotated copy of %s: %v", filepath.Base(path), err)
	}

	return &models.FileReview{
		File:           filepath.Base(path),
		DocType:        docType,
		ReviewedFileID: reviewedID,
		Issues:         issues,
	}, nil
}

func (r *Reviewer) saveReviewed(doc *docx.Document, srcPath string) (string, error) {
	name := "reviewed_" + strings.TrimPrefix(filepath.Base(srcPath), numericPrefix(filepath.Base(srcPath)))
	tmp := filepath.Join(filepath.Dir(srcPath), name)
	if err := doc.Save(tmp); err != nil {
		return "", err
	}
	return r.artifacts.StoreFile(tmp, name, storage.KindReviewed)
}

// numericPrefix returns the "NN_" position prefix an upload scope adds, so
// reviewed copies carry the client's original filename.
func numericPrefix(name string) string {
	i := strings.Index(name, "_")
	if i <= 0 || i > 3 {
		return ""
	}
	for _, r := range name[:i] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return name[:i+1]
}

// locateParagraph finds the first paragraph containing section, matching
// the original heuristic of defaulting to the top of the document.
func locateParagraph(paragraphs []string, section string) int {
	q := strings.ToLower(strings.TrimSpace(section))
	if q == "" {
		return 0
	}
	for i, p := range paragraphs {
		if strings.Contains(strings.ToLower(p), q) {
			return i
		}
	}
	return 0
}
