package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streamvault/streamvault/app/cfg"
	"github.com/streamvault/streamvault/app/config"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tmdb"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	source      tmdb.Searcher
	catalog     *store.Catalog
	overrides   *config.OverrideCache
	callDelay   time.Duration
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

// NewScheduler wires the sweep tasks to the catalog and the metadata source.
// A nil source disables the sweeps that talk to the metadata service; store
// maintenance sweeps still run.
func NewScheduler(source tmdb.Searcher, catalog *store.Catalog, overrides *config.OverrideCache) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		source:      source,
		catalog:     catalog,
		overrides:   overrides,
		callDelay:   time.Duration(cfg.CallDelayMs) * time.Millisecond,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueSweeps()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSweeps()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// BuildJob constructs a single sweep task by name, for one-shot runs and the
// on-demand jobs endpoint.
func (s *Scheduler) BuildJob(name string) (TaskInterface, error) {
	switch TaskType(name) {
	case TaskTypeSyncOverrides:
		return NewSyncOverridesTask(s.overrides), nil
	case TaskTypeEnrichShows:
		if s.source == nil {
			return nil, fmt.Errorf("job %q requires a metadata API key", name)
		}
		return NewEnrichShowsTask(s.source, s.catalog, s.overrides, s.catalog, s.callDelay), nil
	case TaskTypeEnrichMovies:
		if s.source == nil {
			return nil, fmt.Errorf("job %q requires a metadata API key", name)
		}
		return NewEnrichMoviesTask(s.source, s.catalog, s.overrides, s.catalog, s.callDelay), nil
	case TaskTypeBackfillEpisodes:
		if s.source == nil {
			return nil, fmt.Errorf("job %q requires a metadata API key", name)
		}
		return NewBackfillEpisodesTask(s.source, s.catalog, s.catalog, s.catalog, s.callDelay), nil
	case TaskTypeDedupeEpisodes:
		return NewDedupeEpisodesTask(s.catalog, s.catalog), nil
	case TaskTypeBackfillTimestamps:
		return NewBackfillTimestampsTask(s.catalog, s.catalog, s.catalog, s.catalog), nil
	default:
		return nil, fmt.Errorf("unknown job %q", name)
	}
}

// enqueueSweeps schedules one full maintenance cycle. Overrides are reloaded
// first so the enrichment sweeps in the same cycle see fresh pins.
func (s *Scheduler) enqueueSweeps() {
	jobs := []TaskType{TaskTypeSyncOverrides}
	if s.source != nil {
		jobs = append(jobs, TaskTypeEnrichShows, TaskTypeEnrichMovies, TaskTypeBackfillEpisodes)
	} else {
		slog.Debug("No metadata source configured, skipping enrichment sweeps")
	}
	jobs = append(jobs, TaskTypeDedupeEpisodes, TaskTypeBackfillTimestamps)

	for _, job := range jobs {
		task, err := s.BuildJob(string(job))
		if err != nil {
			slog.Warn("Failed to build sweep task", "type", string(job), "error", err)
			continue
		}
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue sweep task", "type", string(job), "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
