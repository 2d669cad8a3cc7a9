// Fixed-size background worker pool. Triggering a crawl never blocks the
// request path; at most workerCount runs execute at a time.
package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ctonews/log"
)

const DefaultWorkerCount = 2
const queueCapacity = 16

type task struct {
	Name  string
	RunId string
	Fn    func(ctx context.Context, logger log.Logger)
}

type Runner struct {
	tasks  chan task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(workerCount int) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &Runner{
		tasks:  make(chan task, queueCapacity),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workerCount; i++ {
		runner.wg.Add(1)
		go runner.work(i)
	}
	return runner
}

func (r *Runner) work(workerId int) {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case t := <-r.tasks:
			logger := &log.TaskLogger{TaskName: t.Name, RunId: t.RunId}
			logger.Info().Int("worker", workerId).Msg("Task started")
			func() {
				defer func() {
					if rvr := recover(); rvr != nil {
						logger.Error().Any("panic", rvr).Msg("Task panicked")
					}
				}()
				t.Fn(r.ctx, logger)
			}()
			logger.Info().Int("worker", workerId).Msg("Task finished")
		}
	}
}

// Submit queues a task and returns immediately. Returns false when the
// queue is full or the runner is shutting down.
func (r *Runner) Submit(name string, fn func(ctx context.Context, logger log.Logger)) bool {
	t := task{
		Name:  name,
		RunId: uuid.New().String(),
		Fn:    fn,
	}
	select {
	case <-r.ctx.Done():
		return false
	default:
	}

	select {
	case r.tasks <- t:
		return true
	default:
		(&log.BackgroundLogger{}).Warn().Str("task", name).Msg("Task queue full, dropping")
		return false
	}
}

// Shutdown cancels the context running tasks observe and waits for them.
// An interrupted crawl still flushes its partial batch on the way out.
func (r *Runner) Shutdown() {
	r.cancel()
	r.wg.Wait()
}
