package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/internal/collection"
	"github.com/dgallion1/docchunk/internal/storage"
)

func waitForJob(t *testing.T, r *Runner, id string) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		snap := r.GetJob(id).Snapshot()
		if snap.Status == StatusCompleted || snap.Status == StatusFailed {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return JobSnapshot{}
}

func TestRunner_IngestsAndStores(t *testing.T) {
	ctx := context.Background()
	output := filepath.Join(t.TempDir(), "chunks.json")
	cfg := testConfig(sampleDocs(t), output)

	store, err := storage.Open(ctx, "sqlite:"+filepath.Join(t.TempDir(), "chunks.db"), 10)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	r := NewRunner(cfg, store, testLogger())
	r.Start(ctx)
	defer r.Stop()

	job, err := r.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if job.ID == "" {
		t.Fatal("expected job ID")
	}

	snap := waitForJob(t, r, job.ID)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Stored != 2 || snap.Stats.Count != 2 {
		t.Errorf("expected 2 chunks stored, got stored=%d count=%d", snap.Stored, snap.Stats.Count)
	}
	if snap.Progress.DocumentsTotal != 3 || snap.Progress.DocumentsSkipped != 1 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}

	c, err := collection.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if c.Metadata.TotalChunks != 2 {
		t.Errorf("expected 2 chunks in output, got %d", c.Metadata.TotalChunks)
	}
}

func TestRunner_FailedJob(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "chunks.json"))

	r := NewRunner(cfg, nil, testLogger())
	r.Start(ctx)
	defer r.Stop()

	job, err := r.Submit()
	if err != nil {
		t.Fatal(err)
	}

	snap := waitForJob(t, r, job.ID)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Errors)
	}
}

func TestRunner_SubmitBusy(t *testing.T) {
	// Not started, so the first job stays queued.
	r := NewRunner(testConfig(t.TempDir(), ""), nil, testLogger())

	if _, err := r.Submit(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Submit(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
}

func TestRunner_GetJobMissing(t *testing.T) {
	r := NewRunner(testConfig(t.TempDir(), ""), nil, testLogger())
	if r.GetJob("nope") != nil {
		t.Error("expected nil for unknown job")
	}
}
