package common

import (
	"encoding/json"
	"time"
)

type JobStatus string

type Job struct {
	Id           string          `json:"id"`
	Queue        string          `json:"queue"`
	Payload      json.RawMessage `json:"payload"`
	Status       JobStatus       `json:"status"`
	MaxRetries   int             `json:"max_retries"`
	Attempts     []Attempt       `json:"attempts"`
	Dependencies []string        `json:"dependencies,omitempty"`
	Dependents   []string        `json:"dependents,omitempty"`
	RunAt        *time.Time      `json:"run_at,omitempty"`
	CronExpr     string          `json:"cron_expr,omitempty"`
	RetryPolicy  RetryPolicy     `json:"retry_policy"`
	Timeout      time.Duration   `json:"timeout"` // nanoseconds on the wire
}

// Attempt is a single execution of a job. A zero FinishedAt means the attempt hasn't finished yet.
type Attempt struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
}

type RetryPolicy struct {
	InitialInterval time.Duration `json:"initial_interval"`
	MaxInterval     time.Duration `json:"max_interval"`
	MaxAttempts     int           `json:"max_attempts"`
}

type WorkerStats struct {
	Id            string    `json:"id"`
	Status        string    `json:"status"`
	CurrentJobId  string    `json:"current_job_id,omitempty"`
	JobsCompleted int       `json:"jobs_completed"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// DLQJob is a job that exhausted its retry policy. Once dead, a job is reported only by the DLQ endpoint.
type DLQJob struct {
	Id       string          `json:"id"`
	Queue    string          `json:"queue"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts []Attempt       `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// EnqueueRequest is the partial job submitted to the backend
type EnqueueRequest struct {
	Id           string          `json:"id"`
	Queue        string          `json:"queue"`
	Payload      json.RawMessage `json:"payload"`
	Status       JobStatus       `json:"status"`
	MaxRetries   int             `json:"max_retries"`
	Timeout      time.Duration   `json:"timeout"`
	RetryPolicy  RetryPolicy     `json:"retry_policy"`
	CronExpr     string          `json:"cron_expr,omitempty"`
	Dependencies []string        `json:"dependencies,omitempty"`
}

type GlobalStats struct {
	TotalJobs   int `json:"totalJobs"`
	RunningJobs int `json:"runningJobs"`
	FailedJobs  int `json:"failedJobs"`
	DeadJobs    int `json:"deadJobs"`
}
