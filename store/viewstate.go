package store

import (
	"sync"
	"time"

	"github.com/n0rdy/widaconsole/common"
)

// Snapshot is a read-only copy of the view-state. Collections are shared with the store and
// must not be modified: they are replaced wholesale on every commit, never patched.
type Snapshot struct {
	Jobs     []common.Job
	Workers  []common.WorkerStats
	Dlq      []common.DLQJob
	IsLeader bool
	SyncedAt common.ResourceSync
	Version  uint64
}

// LastSync returns the most recent commit time across all resources
func (s Snapshot) LastSync() time.Time {
	last := s.SyncedAt.Jobs
	for _, t := range []time.Time{s.SyncedAt.Workers, s.SyncedAt.Dlq, s.SyncedAt.Scheduler} {
		if t.After(last) {
			last = t
		}
	}
	return last
}

type ViewState struct {
	jobs     []common.Job
	workers  []common.WorkerStats
	dlq      []common.DLQJob
	isLeader bool
	syncedAt common.ResourceSync
	version  uint64
	now      func() time.Time
	mu       sync.RWMutex
}

func NewViewState() *ViewState {
	return &ViewState{
		jobs:    []common.Job{},
		workers: []common.WorkerStats{},
		dlq:     []common.DLQJob{},
		now:     time.Now,
	}
}

func (vs *ViewState) ReplaceJobs(jobs []common.Job) {
	if jobs == nil {
		jobs = []common.Job{}
	}
	vs.mu.Lock()
	vs.jobs = jobs
	vs.syncedAt.Jobs = vs.now()
	vs.version++
	vs.mu.Unlock()
}

func (vs *ViewState) ReplaceWorkers(workers []common.WorkerStats) {
	if workers == nil {
		workers = []common.WorkerStats{}
	}
	vs.mu.Lock()
	vs.workers = workers
	vs.syncedAt.Workers = vs.now()
	vs.version++
	vs.mu.Unlock()
}

func (vs *ViewState) ReplaceDLQ(dlq []common.DLQJob) {
	if dlq == nil {
		dlq = []common.DLQJob{}
	}
	vs.mu.Lock()
	vs.dlq = dlq
	vs.syncedAt.Dlq = vs.now()
	vs.version++
	vs.mu.Unlock()
}

func (vs *ViewState) SetLeader(isLeader bool) {
	vs.mu.Lock()
	vs.isLeader = isLeader
	vs.syncedAt.Scheduler = vs.now()
	vs.version++
	vs.mu.Unlock()
}

func (vs *ViewState) Snapshot() Snapshot {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	return Snapshot{
		Jobs:     vs.jobs,
		Workers:  vs.workers,
		Dlq:      vs.dlq,
		IsLeader: vs.isLeader,
		SyncedAt: vs.syncedAt,
		Version:  vs.version,
	}
}
