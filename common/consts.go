package common

const (
	// job statuses, as reported by the backend:
	PendingStatus JobStatus = "pending"
	RunningStatus JobStatus = "running"
	SuccessStatus JobStatus = "success"
	FailedStatus  JobStatus = "failed"

	// worker status reported while a job is executing:
	WorkerRunningStatus = "running"

	// resources polled from the backend:
	JobsResource      = "jobs"
	WorkersResource   = "workers"
	DlqResource       = "dlq"
	SchedulerResource = "scheduler"

	// backend endpoints:
	JobsPath      = "/api/jobs"
	WorkersPath   = "/api/workers"
	DlqPath       = "/api/dlq"
	SchedulerPath = "/api/scheduler"
	EnqueuePath   = "/api/jobs/enqueue"

	// log formats:
	JsonLogFormat    = "json"
	ConsoleLogFormat = "console"
)

var (
	Resources = []string{JobsResource, WorkersResource, DlqResource, SchedulerResource}

	SupportedLogFormats = map[string]bool{
		JsonLogFormat:    true,
		ConsoleLogFormat: true,
	}
)
