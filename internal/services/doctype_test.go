package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDocType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "articles of association",
			text: "ARTICLES OF ASSOCIATION of Example Holdings Ltd, adopted pursuant to ADGM regulations",
			want: "Articles of Association",
		},
		{
			name: "memorandum",
			text: "This Memorandum of Association sets out the subscribers...",
			want: "Memorandum of Association",
		},
		{
			name: "board resolution",
			text: "Minutes and resolution of the board held on 1 March",
			want: "Board Resolution",
		},
		{
			name: "ubo declaration",
			text: "Declaration regarding the ultimate beneficial owner of the company",
			want: "UBO Declaration Form",
		},
		{
			name: "employment contract",
			text: "This standard employment contract is entered into between...",
			want: "Employment Contract",
		},
		{
			name: "unknown",
			text: "A grocery list: eggs, milk, flour",
			want: DocTypeUnknown,
		},
		{
			name: "empty",
			text: "",
			want: DocTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDocType(tt.text))
		})
	}
}

func TestDetectDocTypeIsDeterministic(t *testing.T) {
	// Text matching several keyword sets must always classify the same way.
	text := "Articles of Association and Memorandum of Association of the company"
	first := DetectDocType(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, DetectDocType(text))
	}
}

func TestDetectProcess(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{
			name:  "articles implies incorporation",
			types: []string{"Articles of Association"},
			want:  ProcessIncorporation,
		},
		{
			name:  "memorandum implies incorporation",
			types: []string{"Employment Contract", "Memorandum of Association"},
			want:  ProcessIncorporation,
		},
		{
			name:  "unrelated documents",
			types: []string{"Employment Contract", "Data Protection Policy"},
			want:  ProcessUnknown,
		},
		{
			name:  "empty",
			types: nil,
			want:  ProcessUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProcess(tt.types))
		})
	}
}

func TestMissingDocuments(t *testing.T) {
	types := []string{"Articles of Association", "UBO Declaration Form"}
	missing := MissingDocuments(ProcessIncorporation, types)

	assert.Equal(t, []string{
		"Memorandum of Association",
		"Incorporation Application Form",
		"Register of Members and Directors",
	}, missing)

	assert.Empty(t, MissingDocuments(ProcessUnknown, types))
}
