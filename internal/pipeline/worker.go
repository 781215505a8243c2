package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/frontmatter"
	"github.com/dgallion1/docchunk/internal/parser"
)

// Worker turns one document into its chunks.
type Worker struct {
	chunker         *chunker.Chunker
	minContentChars int
	log             *slog.Logger
}

func NewWorker(c *chunker.Chunker, minContentChars int, log *slog.Logger) *Worker {
	return &Worker{
		chunker:         c,
		minContentChars: minContentChars,
		log:             log,
	}
}

// Process reads the file at filePath and fills in doc's title, raw and clean
// content. It returns doc's chunks in order, or none when the cleaned content
// is shorter than the minimum. Read and extraction failures are returned.
func (w *Worker) Process(ctx context.Context, doc *document.Document, filePath string) ([]document.Chunk, error) {
	log := w.log.With("doc", doc.Path, "doc_number", doc.DocNumber)

	// Phase 1: Load
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Path, err)
	}

	meta, body, err := frontmatter.Parse(string(data))
	if err != nil {
		log.Warn("ignoring malformed front matter", "error", err)
	}
	doc.Title = document.Title(meta, doc.Path)
	doc.RawContent = body

	// Phase 2: Clean
	extractor, err := parser.ForFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path, err)
	}
	text, err := extractor.Extract(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Path, err)
	}
	doc.CleanContent = Normalize(text)

	if n := utf8.RuneCountInString(doc.CleanContent); n < w.minContentChars {
		log.Info("skipping document with too little content", "chars", n, "min_chars", w.minContentChars)
		return nil, nil
	}

	// Phase 3: Chunk
	chunks := doc.Chunks(w.chunker.Chunk(doc.CleanContent))
	log.Debug("chunked document", "title", doc.Title, "chunks", len(chunks))
	return chunks, nil
}
