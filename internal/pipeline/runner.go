package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/google/uuid"
)

// ErrBusy is returned by Submit when an ingest is already queued.
var ErrBusy = errors.New("an ingest job is already queued")

// Runner executes ingest jobs in the background, one at a time.
type Runner struct {
	cfg   config.Config
	store storage.Store
	log   *slog.Logger
	jobs  *JobStore
	queue chan *Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner. store may be nil to skip persisting chunks.
func NewRunner(cfg config.Config, store storage.Store, log *slog.Logger) *Runner {
	return &Runner{
		cfg:   cfg,
		store: store,
		log:   log,
		jobs:  NewJobStore(cfg.Server.JobTTL),
		queue: make(chan *Job, 1),
	}
}

// Start launches the worker goroutine and the job cleanup loop.
func (r *Runner) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case job, ok := <-r.queue:
				if !ok {
					return
				}
				r.process(workerCtx, job)
			}
		}
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				r.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels any running job and waits for the goroutines to exit.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Submit queues a new ingest job.
func (r *Runner) Submit() (*Job, error) {
	now := time.Now()
	job := &Job{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	select {
	case r.queue <- job:
		r.jobs.Put(job)
		return job, nil
	default:
		return nil, ErrBusy
	}
}

// GetJob returns a job by ID, or nil.
func (r *Runner) GetJob(id string) *Job {
	return r.jobs.Get(id)
}

func (r *Runner) process(ctx context.Context, job *Job) {
	log := r.log.With("job_id", job.ID)
	job.SetStatus(StatusRunning, "ingesting")

	orch := NewOrchestrator(r.cfg, log, WithProgress(job.SetProgress))
	res, err := orch.Ingest(ctx, r.cfg.Output, r.store)
	if err != nil {
		log.Error("ingest failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "ingesting")
		return
	}
	job.Complete(res)
}
