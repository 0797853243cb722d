package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"corporate-agent/internal/models"
	"corporate-agent/internal/services"
	"corporate-agent/internal/storage"
	"corporate-agent/pkg/log"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// multipart field carrying the uploaded documents
const documentsField = "documents"

// IndexStats exposes reference-index counters for the health endpoint.
type IndexStats interface {
	ChunkCount() int
}

// ReviewHandler handles document review requests.
type ReviewHandler struct {
	uploads    *storage.UploadStore
	dispatcher *services.Dispatcher
	artifacts  *storage.TempStorage
	index      IndexStats
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(
	uploads *storage.UploadStore,
	dispatcher *services.Dispatcher,
	artifacts *storage.TempStorage,
	index IndexStats,
) *ReviewHandler {
	return &ReviewHandler{
		uploads:    uploads,
		dispatcher: dispatcher,
		artifacts:  artifacts,
		index:      index,
	}
}

// Review handles POST /api/review: store the uploaded batch, analyze each
// file in submission order, and return the combined report.
func (h *ReviewHandler) Review(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ReviewResponse{
			Success: false,
			Message: "Invalid multipart request",
		})
	}

	files := form.File[documentsField]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ReviewResponse{
			Success: false,
			Message: "no files provided",
		})
	}

	if msg := validateBatch(files); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ReviewResponse{
			Success: false,
			Message: msg,
		})
	}

	scope, err := h.uploads.NewScope()
	if err != nil {
		log.WithError(err).Errorf("❌ Could not create upload scope")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ReviewResponse{
			Success: false,
			Message: "Failed to store uploads",
		})
	}
	defer scope.Release()

	uploaded := make([]storage.UploadedFile, 0, len(files))
	for _, fh := range files {
		uf, err := saveUpload(scope, fh)
		if err != nil {
			log.WithError(err).Errorf("❌ Could not store upload %q", fh.Filename)
			return c.Status(fiber.StatusInternalServerError).JSON(models.ReviewResponse{
				Success: false,
				Message: fmt.Sprintf("Failed to store upload %q", fh.Filename),
			})
		}
		uploaded = append(uploaded, uf)
	}

	log.Infof("📥 Review batch: files=%d scope=%s", len(uploaded), scope.Dir())
	start := time.Now()

	results := h.dispatcher.Run(context.Background(), uploaded)
	report := services.BuildCombinedReport(results)

	reportID, err := h.storeReport(report)
	if err != nil {
		// The response still carries the report inline.
		log.WithError(err).Warnf("⚠️  Could not keep combined report")
	}

	log.Infof("✅ Review complete: files=%d process=%q time=%dms",
		len(results), report.Process, time.Since(start).Milliseconds())

	return c.JSON(models.ReviewResponse{
		Success:  true,
		Message:  "analysis complete",
		ReportID: reportID,
		Report:   report,
	})
}

// GetFile handles GET /api/files/:id, serving a reviewed document copy.
func (h *ReviewHandler) GetFile(c fiber.Ctx) error {
	return h.serveArtifact(c, storage.KindReviewed, docxContentType)
}

// GetReport handles GET /api/reports/:id, serving a combined JSON report.
func (h *ReviewHandler) GetReport(c fiber.Ctx) error {
	return h.serveArtifact(c, storage.KindReport, "application/json")
}

func (h *ReviewHandler) serveArtifact(c fiber.Ctx, kind, contentType string) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Artifact ID is required")
	}

	sf, err := h.artifacts.Get(id)
	if err != nil || sf.Kind != kind {
		return c.Status(fiber.StatusNotFound).SendString("Artifact not found or expired")
	}

	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sf.Name))
	return c.SendFile(sf.Path)
}

// Health handles GET /api/health.
func (h *ReviewHandler) Health(c fiber.Ctx) error {
	chunks := 0
	if h.index != nil {
		chunks = h.index.ChunkCount()
	}

	return c.JSON(fiber.Map{
		"status":           "healthy",
		"timestamp":        time.Now().Format(time.RFC3339),
		"reference_chunks": chunks,
		"artifact_storage": h.artifacts.Stats(),
	})
}

func (h *ReviewHandler) storeReport(report *models.CombinedReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return h.artifacts.StoreBytes(data, "combined_review_report.json", storage.KindReport)
}

// validateBatch rejects files without a name or with an extension other
// than .docx before anything touches disk. Content type is advisory only:
// a mismatch is logged, not rejected.
func validateBatch(files []*multipart.FileHeader) string {
	for _, fh := range files {
		name := strings.TrimSpace(fh.Filename)
		if name == "" {
			return "a file with an empty filename was submitted"
		}
		if !strings.EqualFold(filepath.Ext(name), ".docx") {
			return fmt.Sprintf("unsupported file type %q: only .docx files are supported", name)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "" && ct != docxContentType {
			log.Warnf("⚠️  Unexpected content type for %s: %s", name, ct)
		}
	}
	return ""
}

func saveUpload(scope *storage.UploadScope, fh *multipart.FileHeader) (storage.UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return storage.UploadedFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return scope.Save(fh.Filename, src)
}
