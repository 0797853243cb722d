package services

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// Chunk is one indexed slice of the reference corpus.
type Chunk struct {
	Text   string
	Source string
}

// Index is an in-memory vector index over reference chunks. Search is a
// linear scan with cosine similarity, which is plenty for a corpus of
// regulatory excerpts.
type Index struct {
	Vectors [][]float32
	Chunks  []Chunk
}

// ChunkText splits text into word-window chunks of the given size.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = 500
	}
	words := strings.Fields(text)
	chunks := make([]string, 0, len(words)/size+1)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Add appends one embedded chunk to the index.
func (ix *Index) Add(vec []float32, c Chunk) {
	ix.Vectors = append(ix.Vectors, vec)
	ix.Chunks = append(ix.Chunks, c)
}

// Len reports how many chunks the index holds.
func (ix *Index) Len() int {
	return len(ix.Chunks)
}

// Search returns the topK chunks most similar to the query vector.
func (ix *Index) Search(query []float32, topK int) []Chunk {
	type scored struct {
		idx   int
		score float64
	}

	scores := make([]scored, 0, len(ix.Vectors))
	for i, v := range ix.Vectors {
		scores = append(scores, scored{idx: i, score: cosine(query, v)})
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]Chunk, 0, topK)
	for _, s := range scores[:topK] {
		out = append(out, ix.Chunks[s.idx])
	}
	return out
}

// Save serializes the index to path with gob.
func (ix *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ix); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// LoadIndex reads a gob-serialized index from path.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &ix, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Embedder turns text into a vector. Implemented by the Gemini client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever answers "which reference excerpts matter for this document".
type Retriever struct {
	index    *Index
	embedder Embedder
}

// NewRetriever wires an index to an embedder. A nil or empty index is
// allowed; retrieval then returns no context.
func NewRetriever(index *Index, embedder Embedder) *Retriever {
	if index == nil {
		index = &Index{}
	}
	return &Retriever{index: index, embedder: embedder}
}

// ChunkCount reports the size of the underlying index.
func (r *Retriever) ChunkCount() int {
	return r.index.Len()
}

// Retrieve embeds the query text and returns the topK closest chunks.
func (r *Retriever) Retrieve(ctx context.Context, text string, topK int) ([]Chunk, error) {
	if r.index.Len() == 0 {
		return nil, nil
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.index.Search(vec, topK), nil
}
