package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing and by
// the HTTP API to trigger sweeps on demand.
// Example usage:
//
//	scheduler := NewScheduler(source, catalog, overrides)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewDedupeEpisodesTask(catalog, catalog))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	BuildJob(name string) (TaskInterface, error)
}
