package services

import (
	"context"
	"fmt"
	"time"

	"corporate-agent/internal/models"
	"corporate-agent/internal/storage"
	"corporate-agent/pkg/log"
)

// Analyzer is the analysis capability: one call per persisted document.
// Implementations must treat the context as the deadline for the call.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*models.FileReview, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, path string) (*models.FileReview, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, path string) (*models.FileReview, error) {
	return f(ctx, path)
}

// Dispatcher runs the analysis capability over a batch of uploaded files,
// one at a time, in submission order. A failure on one file becomes an
// error marker in its slot; the remaining files still run. Each call is
// bounded by a per-file timeout.
type Dispatcher struct {
	analyzer Analyzer
	timeout  time.Duration
}

// NewDispatcher builds a dispatcher around the given analyzer.
func NewDispatcher(analyzer Analyzer, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Dispatcher{analyzer: analyzer, timeout: timeout}
}

// Run analyzes every file and returns exactly one result per input, in the
// same order.
func (d *Dispatcher) Run(ctx context.Context, files []storage.UploadedFile) []models.FileResult {
	results := make([]models.FileResult, 0, len(files))

	for _, f := range files {
		start := time.Now()
		review, err := d.analyzeOne(ctx, f.Path)
		if err != nil {
			log.WithError(err).Warnf("❌ Analysis failed: file=%s", f.Name)
			results = append(results, models.FileResult{
				File:   f.Name,
				Status: models.StatusFailed,
				Error:  "analysis failed: " + err.Error(),
			})
			continue
		}

		log.Infof("✅ Analyzed: file=%s type=%s issues=%d time=%dms",
			f.Name, review.DocType, len(review.Issues), time.Since(start).Milliseconds())
		results = append(results, models.FileResult{
			File:           f.Name,
			Status:         models.StatusReviewed,
			DocType:        review.DocType,
			ReviewedFileID: review.ReviewedFileID,
			Issues:         review.Issues,
		})
	}

	return results
}

// analyzeOne applies the per-file timeout and keeps a panicking analyzer
// from taking the rest of the batch down.
func (d *Dispatcher) analyzeOne(ctx context.Context, path string) (review *models.FileReview, err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			review = nil
			err = fmt.Errorf("analyzer panic: %v", r)
		}
	}()

	review, err = d.analyzer.Analyze(ctx, path)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return review, err
}
