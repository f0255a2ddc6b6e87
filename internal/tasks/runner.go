package tasks

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gethired/gethired/internal/domain/task"
	"github.com/gethired/gethired/internal/repository"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultClaimBatch   = 10
)

// Runner polls the tasks table and executes claimed rows on a small worker
// pool. Every claimed task reaches a terminal state: succeeded on a nil
// handler error, failed with the reason otherwise. Rows left running by a
// crashed process are picked up again by a reaper pass.
type Runner struct {
	repo     repository.TaskRepository
	handlers *Handlers
	workers  int
	interval time.Duration
	logger   *log.Logger
}

func NewRunner(repo repository.TaskRepository, handlers *Handlers, workers int, interval time.Duration, logger *log.Logger) *Runner {
	if workers <= 0 {
		workers = 2
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Runner{
		repo:     repo,
		handlers: handlers,
		workers:  workers,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. In-flight tasks get a short grace
// window to finish before Run returns.
func (r *Runner) Run(ctx context.Context) {
	if r.logger != nil {
		r.logger.Printf("[Tasks] runner started workers=%d poll=%s", r.workers, r.interval)
	}

	work := make(chan task.Task)
	var wg sync.WaitGroup
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func() {
			defer wg.Done()
			for t := range work {
				r.execute(ctx, t)
			}
		}()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		r.drainPending(ctx, work)
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	close(work)
	wg.Wait()
	if r.logger != nil {
		r.logger.Printf("[Tasks] runner stopped")
	}
}

func (r *Runner) drainPending(ctx context.Context, work chan<- task.Task) {
	for {
		if ctx.Err() != nil {
			return
		}

		claimed, err := r.repo.ClaimPending(ctx, defaultClaimBatch)
		if err != nil {
			if r.logger != nil && ctx.Err() == nil {
				r.logger.Printf("[Tasks] claim failed err=%v", err)
			}
			return
		}
		if len(claimed) == 0 {
			return
		}

		for _, t := range claimed {
			select {
			case <-ctx.Done():
				// Claimed but never executed; record a terminal state so
				// the row is not stuck in running forever.
				r.release(t)
				return
			case work <- t:
			}
		}
		if len(claimed) < defaultClaimBatch {
			return
		}
	}
}

func (r *Runner) execute(ctx context.Context, t task.Task) {
	start := time.Now()
	err := r.handlers.Handle(ctx, t)

	// Terminal-state writes use a fresh context so a shutdown mid-task
	// still records the outcome.
	markCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err != nil {
		if r.logger != nil {
			r.logger.Printf("[Tasks] task failed id=%s kind=%s attempt=%d err=%v", t.ID, t.Kind, t.Attempts, err)
		}
		if markErr := r.repo.MarkFailed(markCtx, t.ID, err.Error()); markErr != nil && r.logger != nil {
			r.logger.Printf("[Tasks] mark failed id=%s err=%v", t.ID, markErr)
		}
		return
	}

	if r.logger != nil {
		r.logger.Printf("[Tasks] task done id=%s kind=%s took=%s", t.ID, t.Kind, time.Since(start))
	}
	if markErr := r.repo.MarkSucceeded(markCtx, t.ID); markErr != nil && r.logger != nil {
		r.logger.Printf("[Tasks] mark succeeded id=%s err=%v", t.ID, markErr)
	}
}

func (r *Runner) release(t task.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.repo.MarkFailed(ctx, t.ID, "shutdown before execution"); err != nil && r.logger != nil {
		r.logger.Printf("[Tasks] release failed id=%s err=%v", t.ID, err)
	}
}
