// Command indexer builds the reference-corpus vector index the reviewer
// retrieves context from. It reads .txt and .docx files from the data
// directory, chunks them, embeds each chunk, and serializes the index.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"corporate-agent/internal/config"
	"corporate-agent/internal/docx"
	"corporate-agent/internal/services"
	"corporate-agent/pkg/log"
)

func main() {
	chunkSize := flag.Int("chunk-size", 500, "words per chunk")
	flag.Parse()

	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	if cfg.GeminiAPIKey == "" {
		log.Fatalf("❌ GOOGLE_API_KEY is required to embed the corpus")
	}

	files, err := corpusFiles(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ Failed to scan data dir: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("❌ No reference documents found in %q", cfg.DataDir)
	}
	log.Infof("📚 Loaded %d reference documents from %s", len(files), cfg.DataDir)

	gemini := services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey,
		cfg.GeminiModel, cfg.EmbedModel, cfg.LLMTimeout)

	index := &services.Index{}
	ctx := context.Background()

	for _, path := range files {
		text, err := readDocument(path)
		if err != nil {
			log.Warnf("⚠️  Skipping %s: %v", path, err)
			continue
		}

		source := filepath.Base(path)
		for _, chunk := range services.ChunkText(text, *chunkSize) {
			vec, err := gemini.Embed(ctx, chunk)
			if err != nil {
				log.Fatalf("❌ Embedding failed for %s: %v", source, err)
			}
			index.Add(vec, services.Chunk{Text: chunk, Source: source})
		}
		log.Infof("➕ Indexed %s", source)
	}

	if err := index.Save(cfg.IndexPath); err != nil {
		log.Fatalf("❌ Failed to save index: %v", err)
	}
	log.Infof("✅ Index saved: chunks=%d path=%s", index.Len(), cfg.IndexPath)
}

func corpusFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".docx":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func readDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		doc, err := docx.Open(path)
		if err != nil {
			return "", err
		}
		return doc.Text(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
