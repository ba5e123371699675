package metrics

import (
	"sync"
	"time"

	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/stats"
	"github.com/n0rdy/widaconsole/store"
)

// QueueBacklogMetricsJob periodically publishes the per-queue backlog of the current view-state
type QueueBacklogMetricsJob struct {
	metricsService metrics.Service
	viewState      *store.ViewState
	reported       map[string]bool
	ticker         *time.Ticker
	done           chan struct{}
	mu             sync.Mutex
}

func NewQueueBacklogMetricsJob(metricsService metrics.Service, viewState *store.ViewState, intervalMs int64) *QueueBacklogMetricsJob {
	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	done := make(chan struct{})

	j := &QueueBacklogMetricsJob{
		metricsService: metricsService,
		viewState:      viewState,
		reported:       make(map[string]bool),
		ticker:         ticker,
		done:           done,
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				j.publish()
			case <-done:
				return
			}
		}
	}()

	return j
}

// publish sets the gauge of every queue with a backlog and zeroes the ones whose backlog is gone
func (j *QueueBacklogMetricsJob) publish() {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := j.viewState.Snapshot()
	current := make(map[string]bool)
	for _, qb := range stats.QueueBacklog(snap.Jobs) {
		j.metricsService.SetQueueBacklog(qb.Name, qb.Pending)
		current[qb.Name] = true
	}
	for queueName := range j.reported {
		if !current[queueName] {
			j.metricsService.SetQueueBacklog(queueName, 0)
		}
	}
	j.reported = current
}

func (j *QueueBacklogMetricsJob) Close() error {
	j.ticker.Stop()
	close(j.done)
	return nil
}
