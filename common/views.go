package common

import "time"

const (
	OfflineWorkerState WorkerState = "offline"
	BusyWorkerState    WorkerState = "busy"
	IdleWorkerState    WorkerState = "idle"
)

type WorkerState string

// StatusBucket is one slice of the status histogram
type StatusBucket struct {
	Name  string `json:"name"`
	Count int    `json:"value"`
}

type QueueBacklog struct {
	Name    string `json:"name"`
	Pending int    `json:"pending"`
}

// QueueSummary represents per-queue counters for the queues view
type QueueSummary struct {
	Name    string `json:"name"`
	Pending int    `json:"pending"`
	Running int    `json:"running"`
	Failed  int    `json:"failed"`
	Dead    int    `json:"dlq"`
}

type DependencyEntry struct {
	JobId        string   `json:"job_id"`
	Queue        string   `json:"queue"`
	Dependencies []string `json:"dependencies"`
}

type CronEntry struct {
	Job     Job        `json:"job"`
	Valid   bool       `json:"valid"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

type WorkerView struct {
	Worker WorkerStats `json:"worker"`
	Alive  bool        `json:"alive"`
	State  WorkerState `json:"state"`
}

type SchedulerBanner struct {
	IsLeader      bool   `json:"is_leader"`
	Label         string `json:"label"`          // "Leader" or "Standby"
	ElectionLabel string `json:"election_label"` // "Master" or "Follower"
}

// DashboardPageData contains data for the dashboard page
type DashboardPageData struct {
	Stats         GlobalStats
	ActiveWorkers int
	Scheduler     SchedulerBanner
	Histogram     []StatusBucket
	Backlog       []QueueBacklog
	RecentJobs    []Job
}

type QueuesPageData struct {
	Queues []QueueSummary
}

type JobsPageData struct {
	Jobs []Job
}

// JobPageData contains data for the job inspector
type JobPageData struct {
	Job           Job
	PrettyPayload string
	CanRetry      bool
}

type WorkersPageData struct {
	Workers []WorkerView
}

type SchedulerPageData struct {
	Scheduler      SchedulerBanner
	CronJobs       []CronEntry
	DependencyJobs []DependencyEntry
}

type DlqPageData struct {
	Entries []DLQJob
}

// ResourceSync tells when each resource was last committed. Zero means never.
type ResourceSync struct {
	Jobs      time.Time `json:"jobs"`
	Workers   time.Time `json:"workers"`
	Dlq       time.Time `json:"dlq"`
	Scheduler time.Time `json:"scheduler"`
}

// ViewResponse is the full view-state served to JSON display surfaces
type ViewResponse struct {
	Version   uint64          `json:"version"`
	SyncedAt  ResourceSync    `json:"synced_at"`
	Jobs      []Job           `json:"jobs"`
	Workers   []WorkerView    `json:"workers"`
	Dlq       []DLQJob        `json:"dlq"`
	Scheduler SchedulerBanner `json:"scheduler"`
	Stats     GlobalStats     `json:"stats"`
	Histogram []StatusBucket  `json:"histogram"`
	Backlog   []QueueBacklog  `json:"backlog"`
}

// StatsResponse contains only the derived aggregates
type StatsResponse struct {
	Stats     GlobalStats     `json:"stats"`
	Histogram []StatusBucket  `json:"histogram"`
	Backlog   []QueueBacklog  `json:"backlog"`
	Queues    []QueueSummary  `json:"queues"`
	Scheduler SchedulerBanner `json:"scheduler"`
}
