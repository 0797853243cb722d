package services

import "strings"

// Known ADGM document types.
const (
	DocTypeUnknown = "Unknown"
)

// docTypeKeywords maps a document type to the lowercase phrases that
// identify it. First match wins, checked in the order of docTypeOrder.
var docTypeKeywords = map[string][]string{
	"Articles of Association":             {"articles of association", "articles of association (", "articles of assoc"},
	"Memorandum of Association":           {"memorandum of association", "memorandum of assoc", "moa"},
	"Board Resolution":                    {"board resolution", "resolution of the board", "board of directors resolution"},
	"Shareholder Resolution":              {"shareholder resolution", "resolution of the shareholders"},
	"Incorporation Application Form":      {"application for incorporation", "incorporation application"},
	"UBO Declaration Form":                {"ubo declaration", "ultimate beneficial owner", "ubo"},
	"Register of Members and Directors":   {"register of members", "register of directors", "register of members and directors"},
	"Change of Registered Address Notice": {"change of registered address", "registered address notice"},
	"Employment Contract":                 {"standard employment contract", "employment contract"},
	"Data Protection Policy":              {"appropriate policy document", "data protection"},
}

// docTypeOrder fixes iteration order so classification is deterministic.
var docTypeOrder = []string{
	"Articles of Association",
	"Memorandum of Association",
	"Board Resolution",
	"Shareholder Resolution",
	"Incorporation Application Form",
	"UBO Declaration Form",
	"Register of Members and Directors",
	"Change of Registered Address Notice",
	"Employment Contract",
	"Data Protection Policy",
}

// DetectDocType classifies a document from its body text using keyword
// matching. Returns DocTypeUnknown when nothing matches.
func DetectDocType(text string) string {
	txt := strings.ToLower(text)
	for _, dtype := range docTypeOrder {
		for _, kw := range docTypeKeywords[dtype] {
			if strings.Contains(txt, kw) {
				return dtype
			}
		}
	}
	return DocTypeUnknown
}
