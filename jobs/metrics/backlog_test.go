package metrics

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/store"

	"github.com/stretchr/testify/assert"
)

type recordingMetricsService struct {
	mu      sync.Mutex
	backlog map[string]int
}

func newRecordingMetricsService() *recordingMetricsService {
	return &recordingMetricsService{backlog: make(map[string]int)}
}

func (r *recordingMetricsService) IncPollCyclesTotal(outcome string)               {}
func (r *recordingMetricsService) IncFetchFailuresTotal(resource string)           {}
func (r *recordingMetricsService) ObservePollCycleDuration(duration time.Duration) {}
func (r *recordingMetricsService) SetCollectionSize(resource string, size int)     {}
func (r *recordingMetricsService) SetSchedulerLeader(isLeader bool)                {}
func (r *recordingMetricsService) IncEnqueueRequestsTotal(result string)           {}
func (r *recordingMetricsService) Handler() http.Handler                           { return http.NotFoundHandler() }

func (r *recordingMetricsService) SetQueueBacklog(queueName string, pending int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pending == 0 {
		delete(r.backlog, queueName)
		return
	}
	r.backlog[queueName] = pending
}

func (r *recordingMetricsService) Backlog() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]int, len(r.backlog))
	for k, v := range r.backlog {
		copied[k] = v
	}
	return copied
}

func TestQueueBacklogMetricsJob_Publish(t *testing.T) {
	recorder := newRecordingMetricsService()
	viewState := store.NewViewState()
	viewState.ReplaceJobs([]common.Job{
		{Id: "j1", Queue: "emails", Status: common.PendingStatus},
		{Id: "j2", Queue: "emails", Status: common.PendingStatus},
		{Id: "j3", Queue: "reports", Status: common.PendingStatus},
		{Id: "j4", Queue: "billing", Status: common.RunningStatus},
	})

	job := NewQueueBacklogMetricsJob(recorder, viewState, 10)
	defer job.Close()

	assert.Eventually(t, func() bool {
		backlog := recorder.Backlog()
		return backlog["emails"] == 2 && backlog["reports"] == 1
	}, time.Second, 5*time.Millisecond)

	viewState.ReplaceJobs([]common.Job{{Id: "j1", Queue: "emails", Status: common.PendingStatus}})

	assert.Eventually(t, func() bool {
		backlog := recorder.Backlog()
		return len(backlog) == 1 && backlog["emails"] == 1
	}, time.Second, 5*time.Millisecond)
}
