package polling

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/n0rdy/widaconsole/common"
)

// MockFetcher serves canned snapshots. A non-nil gate blocks every fetch until it is closed.
type MockFetcher struct {
	mu        sync.Mutex
	jobs      []common.Job
	workers   []common.WorkerStats
	dlq       []common.DLQJob
	isLeader  bool
	errs      map[string]error
	gate      chan struct{}
	jobsCalls atomic.Int32
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		jobs:    []common.Job{},
		workers: []common.WorkerStats{},
		dlq:     []common.DLQJob{},
		errs:    make(map[string]error),
	}
}

func (m *MockFetcher) SetJobs(jobs []common.Job) {
	m.mu.Lock()
	m.jobs = jobs
	m.mu.Unlock()
}

func (m *MockFetcher) SetWorkers(workers []common.WorkerStats) {
	m.mu.Lock()
	m.workers = workers
	m.mu.Unlock()
}

func (m *MockFetcher) SetDLQ(dlq []common.DLQJob) {
	m.mu.Lock()
	m.dlq = dlq
	m.mu.Unlock()
}

func (m *MockFetcher) SetLeader(isLeader bool) {
	m.mu.Lock()
	m.isLeader = isLeader
	m.mu.Unlock()
}

func (m *MockFetcher) SetError(resource string, err error) {
	m.mu.Lock()
	m.errs[resource] = err
	m.mu.Unlock()
}

func (m *MockFetcher) SetGate(gate chan struct{}) {
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()
}

func (m *MockFetcher) JobsCalls() int {
	return int(m.jobsCalls.Load())
}

func (m *MockFetcher) wait(ctx context.Context) error {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockFetcher) FetchJobs(ctx context.Context) ([]common.Job, error) {
	m.jobsCalls.Add(1)
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[common.JobsResource]; err != nil {
		return nil, err
	}
	return m.jobs, nil
}

func (m *MockFetcher) FetchWorkers(ctx context.Context) ([]common.WorkerStats, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[common.WorkersResource]; err != nil {
		return nil, err
	}
	return m.workers, nil
}

func (m *MockFetcher) FetchDLQ(ctx context.Context) ([]common.DLQJob, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[common.DlqResource]; err != nil {
		return nil, err
	}
	return m.dlq, nil
}

func (m *MockFetcher) FetchSchedulerStatus(ctx context.Context) (bool, error) {
	if err := m.wait(ctx); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[common.SchedulerResource]; err != nil {
		return false, err
	}
	return m.isLeader, nil
}
