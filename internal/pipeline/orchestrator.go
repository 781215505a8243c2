package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/document"
)

// Progress reports how far a run has got.
type Progress struct {
	DocumentsTotal     int `json:"documents_total"`
	DocumentsProcessed int `json:"documents_processed"`
	DocumentsSkipped   int `json:"documents_skipped"`
	Chunks             int `json:"chunks"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used for generated_at.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithProgress registers a callback invoked after discovery and after each
// document.
func WithProgress(fn func(Progress)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// Orchestrator runs the document chunking pipeline over a docs directory.
type Orchestrator struct {
	docsDir    string
	extensions []string
	worker     *Worker
	log        *slog.Logger
	now        func() time.Time
	onProgress func(Progress)
}

// NewOrchestrator creates a pipeline from cfg.
func NewOrchestrator(cfg config.Config, log *slog.Logger, opts ...Option) *Orchestrator {
	c := chunker.New(chunker.Config{
		MinTokens: cfg.MinTokens,
		MaxTokens: cfg.MaxTokens,
	})
	o := &Orchestrator{
		docsDir:    cfg.DocsDir,
		extensions: cfg.Extensions,
		worker:     NewWorker(c, cfg.MinContentChars, log),
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes every discovered document strictly in sorted order, one at
// a time, and returns the assembled collection. Any error aborts the run
// and no collection is returned. ctx is checked between documents.
func (o *Orchestrator) Run(ctx context.Context) (*document.Collection, error) {
	start := o.now()

	paths, err := Discover(o.docsDir, o.extensions)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	o.log.Info("discovered documents", "docs_dir", o.docsDir, "count", len(paths))

	progress := Progress{DocumentsTotal: len(paths)}
	o.report(progress)

	root := filepath.ToSlash(o.docsDir)
	var chunks []document.Chunk
	for i, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sourcePath := path.Join(root, rel)
		doc := &document.Document{
			Path:      sourcePath,
			Slug:      document.Slug(sourcePath, root),
			DocNumber: i + 1,
		}

		docChunks, err := o.worker.Process(ctx, doc, filepath.Join(o.docsDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, docChunks...)
		progress.DocumentsProcessed++
		if len(docChunks) == 0 {
			progress.DocumentsSkipped++
		}
		progress.Chunks = len(chunks)
		o.report(progress)
	}

	c := document.NewCollection(chunks, len(paths), o.now())
	o.log.Info("pipeline complete",
		"documents", c.Metadata.TotalDocuments,
		"skipped", progress.DocumentsSkipped,
		"chunks", c.Metadata.TotalChunks,
		"duration_ms", o.now().Sub(start).Milliseconds(),
	)
	return c, nil
}

func (o *Orchestrator) report(p Progress) {
	if o.onProgress != nil {
		o.onProgress(p)
	}
}
