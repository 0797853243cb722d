// Command review runs the document reviewer over a local folder of .docx
// files and prints the combined report as console tables, the same output
// the API returns as JSON. Annotated copies land in the review directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"corporate-agent/internal/config"
	"corporate-agent/internal/models"
	"corporate-agent/internal/services"
	"corporate-agent/internal/storage"
	"corporate-agent/pkg/log"
)

func main() {
	dir := flag.String("dir", "./uploads", "folder containing .docx files to review")
	flag.Parse()

	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	if cfg.GeminiAPIKey == "" {
		log.Fatalf("❌ GOOGLE_API_KEY is required")
	}

	files, err := docxFiles(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to scan %q: %v", *dir, err)
	}
	if len(files) == 0 {
		log.Fatalf("❌ No .docx files found in %q", *dir)
	}

	gemini := services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey,
		cfg.GeminiModel, cfg.EmbedModel, cfg.LLMTimeout)

	index, err := services.LoadIndex(cfg.IndexPath)
	if err != nil {
		log.Warnf("⚠️  Reference index not loaded (%v), reviewing without context", err)
		index = nil
	}
	retriever := services.NewRetriever(index, gemini)

	sink, err := newDirStore(cfg.ReviewDir)
	if err != nil {
		log.Fatalf("❌ Failed to prepare review dir: %v", err)
	}

	reviewer := services.NewReviewer(retriever, gemini, sink, cfg.RetrievalTopK)
	dispatcher := services.NewDispatcher(reviewer, cfg.AnalysisTimeout)

	results := dispatcher.Run(context.Background(), files)
	report := services.BuildCombinedReport(results)

	printCombinedReport(report)

	reportPath := filepath.Join(cfg.ReviewDir, "combined_review_report.json")
	if err := writeReport(report, reportPath); err != nil {
		log.Warnf("⚠️  Could not write combined report: %v", err)
	} else {
		fmt.Printf("\nCombined JSON saved to: %s\n", reportPath)
	}
}

func docxFiles(dir string) ([]storage.UploadedFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.docx"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	files := make([]storage.UploadedFile, 0, len(matches))
	for _, m := range matches {
		files = append(files, storage.UploadedFile{Name: filepath.Base(m), Path: m})
	}
	return files, nil
}

// dirStore satisfies services.ArtifactStore by copying annotated documents
// into a plain directory, without the API's TTL semantics.
type dirStore struct {
	dir string
}

func newDirStore(dir string) (*dirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &dirStore{dir: dir}, nil
}

func (d *dirStore) StoreFile(src, name, kind string) (string, error) {
	dst := filepath.Join(d.dir, name)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	_ = os.Remove(src)
	return dst, nil
}

func printCombinedReport(report *models.CombinedReport) {
	fmt.Println("\n====== CHECKLIST SUMMARY ======")
	fmt.Printf("Detected process: %s\n", report.Process)
	fmt.Printf("Uploaded documents: %d\n", report.DocumentsUploaded)
	fmt.Printf("Required documents for process: %d\n", report.RequiredDocuments)
	if len(report.MissingDocuments) > 0 {
		color.Red("Missing documents: %s", strings.Join(report.MissingDocuments, ", "))
	} else {
		color.Green("No required documents missing.")
	}

	for _, res := range report.PerFileResults {
		printFileResult(res)
	}
}

func printFileResult(res models.FileResult) {
	fmt.Printf("\nResults for: %s (type: %s)\n", res.File, res.DocType)

	if res.Status == models.StatusFailed {
		color.Red("  %s", res.Error)
		return
	}
	if len(res.Issues) == 0 {
		color.Green("  No issues found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Section", "Issue", "Severity", "Suggestion", "Reference"})
	table.SetRowLine(true)

	for _, issue := range res.Issues {
		table.Append([]string{
			issue.DocumentSection,
			issue.Issue,
			colorSeverity(issue.Severity),
			issue.Suggestion,
			issue.SourceReference,
		})
	}
	table.Render()
}

func colorSeverity(severity string) string {
	switch strings.ToLower(severity) {
	case "high":
		return color.RedString(severity)
	case "medium":
		return color.YellowString(severity)
	case "low":
		return color.GreenString(severity)
	default:
		return severity
	}
}

func writeReport(report *models.CombinedReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
