package services

import "corporate-agent/internal/models"

// Corporate processes recognized by the checklist.
const (
	ProcessIncorporation = "Company Incorporation"
	ProcessUnknown       = "Unknown"
)

// requiredDocs lists the documents a process needs to be complete.
var requiredDocs = map[string][]string{
	ProcessIncorporation: {
		"Articles of Association",
		"Memorandum of Association",
		"Incorporation Application Form",
		"UBO Declaration Form",
		"Register of Members and Directors",
	},
}

// incorporationSignals are doc types whose presence implies an
// incorporation filing.
var incorporationSignals = map[string]bool{
	"Articles of Association":        true,
	"Memorandum of Association":      true,
	"Incorporation Application Form": true,
}

// DetectProcess infers the corporate process from the set of uploaded
// document types.
func DetectProcess(docTypes []string) string {
	for _, t := range docTypes {
		if incorporationSignals[t] {
			return ProcessIncorporation
		}
	}
	return ProcessUnknown
}

// MissingDocuments returns the required documents for process that are not
// present among the uploaded types, preserving checklist order.
func MissingDocuments(process string, docTypes []string) []string {
	uploaded := make(map[string]bool, len(docTypes))
	for _, t := range docTypes {
		uploaded[t] = true
	}

	missing := []string{}
	for _, req := range requiredDocs[process] {
		if !uploaded[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// BuildCombinedReport assembles the batch-level report from per-file
// results: detected process, checklist gaps, and the results themselves.
func BuildCombinedReport(results []models.FileResult) *models.CombinedReport {
	docTypes := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == models.StatusReviewed {
			docTypes = append(docTypes, r.DocType)
		}
	}

	process := DetectProcess(docTypes)
	required := requiredDocs[process]

	return &models.CombinedReport{
		Process:           process,
		DocumentsUploaded: len(results),
		RequiredDocuments: len(required),
		MissingDocuments:  MissingDocuments(process, docTypes),
		PerFileResults:    results,
	}
}
