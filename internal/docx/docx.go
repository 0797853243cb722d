package docx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	godocx "github.com/fumiama/go-docx"
)

// Document is a parsed .docx with its paragraphs indexed for annotation.
type Document struct {
	file       *godocx.Docx
	paragraphs []*godocx.Paragraph
}

// Open parses the .docx at path.
func Open(path string) (*Document, error) {
	// go-docx keeps reading from the source during WriteTo, so buffer the
	// whole file rather than handing it a file handle we'd have to leak.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader parses a .docx from an in-memory or seekable source.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	file, err := godocx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	d := &Document{file: file}
	for _, it := range file.Document.Body.Items {
		if p, ok := it.(*godocx.Paragraph); ok {
			d.paragraphs = append(d.paragraphs, p)
		}
	}
	return d, nil
}

// Paragraphs returns the plain text of each paragraph, in document order.
func (d *Document) Paragraphs() []string {
	out := make([]string, len(d.paragraphs))
	for i, p := range d.paragraphs {
		out[i] = strings.TrimSpace(fmt.Sprint(p))
	}
	return out
}

// Text returns the whole document body as newline-joined paragraph text.
func (d *Document) Text() string {
	return strings.Join(d.Paragraphs(), "\n")
}

// Annotate appends a bold red review note to the paragraph at index.
// Out-of-range indexes are ignored so annotation never fails a review.
func (d *Document) Annotate(index int, note string) {
	if index < 0 || index >= len(d.paragraphs) {
		return
	}
	run := d.paragraphs[index].AddText("  [REVIEW: " + note + "]")
	run.Bold().Color("FF0000")
}

// Save writes the (possibly annotated) document to path.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create reviewed docx: %w", err)
	}
	defer f.Close()

	if _, err := d.file.WriteTo(f); err != nil {
		return fmt.Errorf("write reviewed docx: %w", err)
	}
	return nil
}

// WriteTo writes the document to w, satisfying io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.file.WriteTo(w)
}

// New returns an empty document, used by tests and the indexer fixtures.
func New() *Document {
	return &Document{file: godocx.New().WithDefaultTheme()}
}

// AddParagraph appends a paragraph with the given text.
func (d *Document) AddParagraph(text string) {
	p := d.file.AddParagraph()
	p.AddText(text)
	d.paragraphs = append(d.paragraphs, p)
}
