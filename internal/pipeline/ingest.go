package pipeline

import (
	"context"
	"fmt"

	"github.com/dgallion1/docchunk/internal/collection"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/storage"
)

// Result summarizes a completed ingest.
type Result struct {
	Collection *document.Collection
	Output     string
	Stats      TokenStats
	Stored     int
}

// Ingest runs the pipeline, writes the collection to output and, when store
// is non-nil, upserts the chunks into it. Nothing is written if the run fails.
func (o *Orchestrator) Ingest(ctx context.Context, output string, store storage.Store) (*Result, error) {
	c, err := o.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := collection.WriteFile(output, c); err != nil {
		return nil, fmt.Errorf("write collection: %w", err)
	}
	o.log.Info("wrote collection", "path", output, "chunks", len(c.Chunks))

	res := &Result{
		Collection: c,
		Output:     output,
		Stats:      Summarize(c.Chunks, o.worker.chunker.Config().MaxTokens),
	}

	if store != nil && len(c.Chunks) > 0 {
		n, err := store.UpsertChunks(ctx, c.Chunks)
		if err != nil {
			return nil, fmt.Errorf("store chunks: %w", err)
		}
		res.Stored = n
		o.log.Info("stored chunk metadata", "records", n)
	}

	return res, nil
}
