// Package task runs pipeline jobs on a bounded worker pool with
// per-task cooperative cancellation. Front ends submit fetch and batch
// jobs here so the UI thread never blocks on network work.
package task

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/sensa-code/climb"
	"golang.org/x/sync/semaphore"
)

// defaultWorkers bounds concurrent tasks. Two slots let a long batch run
// and a single fetch coexist without hammering target sites.
const defaultWorkers = 2

// Progress carries an in-flight status update from a task body.
type Progress struct {
	Current int
	Total   int
	Message string
}

// Result carries a task outcome. A crashed task body surfaces here as an
// EINTERNAL error instead of taking down the pool.
type Result struct {
	TaskID string
	Err    error
}

// Func is a task body. It must watch ctx and return early when the task
// is cancelled; cancellation is cooperative, never forced. The progress
// channel is the sink given at submit time and may be nil.
type Func func(ctx context.Context, progress chan<- Progress) error

// run tracks one active task. The pointer identity ties cleanup to the
// specific run so a preempting resubmission is never cleaned up by its
// predecessor.
type run struct {
	cancel context.CancelFunc
}

// Runner executes tasks on a bounded pool, one active run per task id.
type Runner struct {
	sem    *semaphore.Weighted
	logger *slog.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	runs   map[string]*run
	closed bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the number of pool slots. Defaults to 2.
func WithWorkers(n int64) RunnerOption {
	return func(r *Runner) {
		r.sem = semaphore.NewWeighted(n)
	}
}

// WithLogger sets the logger for task crashes and lifecycle events.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		sem:    semaphore.NewWeighted(defaultWorkers),
		logger: slog.Default(),
		runs:   make(map[string]*run),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit schedules fn under taskID. If a run with the same id is still
// active it is asked to cancel first; the new run takes its place
// immediately (single flight per id via preemption, not queuing). The
// progress and results channels may be nil; when results is set, exactly
// one Result per submission is delivered and the caller must drain it.
func (r *Runner) Submit(taskID string, fn Func, progress chan<- Progress, results chan<- Result) error {
	ctx, cancel := context.WithCancel(context.Background())
	active := &run{cancel: cancel}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return climb.Errorf(climb.EUNAVAILABLE, "task runner is shut down")
	}
	if prior, ok := r.runs[taskID]; ok {
		prior.cancel()
	}
	r.runs[taskID] = active
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		// The slot wait honors cancellation so a preempted task that
		// never got to run still resolves.
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.finish(taskID, active)
			r.deliver(results, Result{TaskID: taskID, Err: err})
			return
		}
		defer r.sem.Release(1)

		err := r.runSafely(ctx, taskID, fn, progress)
		r.finish(taskID, active)
		r.deliver(results, Result{TaskID: taskID, Err: err})
	}()
	return nil
}

// runSafely executes fn, converting a panic into an error so one bad
// task never crashes the pool.
func (r *Runner) runSafely(ctx context.Context, taskID string, fn Func, progress chan<- Progress) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("task crashed",
				"task", taskID,
				"panic", p,
				"stack", string(debug.Stack()),
			)
			err = climb.Errorf(climb.EINTERNAL, "task %s crashed: %v", taskID, p)
		}
	}()
	return fn(ctx, progress)
}

func (r *Runner) finish(taskID string, active *run) {
	r.mu.Lock()
	if r.runs[taskID] == active {
		delete(r.runs, taskID)
	}
	r.mu.Unlock()
	active.cancel()
}

func (r *Runner) deliver(results chan<- Result, res Result) {
	if results == nil {
		return
	}
	if res.Err != nil {
		r.logger.Warn("task finished with error", "task", res.TaskID, "error", res.Err)
	}
	results <- res
}

// Cancel signals the active run for taskID to stop. It returns false
// when no such run exists. The task keeps running until it observes the
// cancellation itself.
func (r *Runner) Cancel(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	active, ok := r.runs[taskID]
	if !ok {
		return false
	}
	active.cancel()
	return true
}

// IsRunning reports whether taskID has an active run.
func (r *Runner) IsRunning(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.runs[taskID]
	return ok
}

// Shutdown cancels all active runs and rejects new submissions. Workers
// are asked to stop, not killed; Shutdown returns once they have.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	r.closed = true
	for _, active := range r.runs {
		active.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}
