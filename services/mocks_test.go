package services

import (
	"context"
	"sync"

	"github.com/n0rdy/widaconsole/common"
)

type MockEnqueueClient struct {
	mu       sync.Mutex
	received []*common.EnqueueRequest
	err      error
}

func (m *MockEnqueueClient) EnqueueJob(ctx context.Context, job *common.EnqueueRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, job)
	return m.err
}

func (m *MockEnqueueClient) Received() []*common.EnqueueRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

type MockRefresher struct {
	mu    sync.Mutex
	calls int
}

func (m *MockRefresher) Refresh() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *MockRefresher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
