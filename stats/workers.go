package stats

import (
	"time"

	"github.com/n0rdy/widaconsole/common"
)

const (
	HeartbeatTimeout = 60 * time.Second
)

// IsWorkerAlive reports whether the last heartbeat is strictly younger than HeartbeatTimeout
func IsWorkerAlive(now time.Time, lastHeartbeat time.Time) bool {
	return now.Sub(lastHeartbeat) < HeartbeatTimeout
}

func ClassifyWorker(now time.Time, worker common.WorkerStats) common.WorkerView {
	alive := IsWorkerAlive(now, worker.LastHeartbeat)

	state := common.IdleWorkerState
	switch {
	case !alive:
		state = common.OfflineWorkerState
	case worker.Status == common.WorkerRunningStatus:
		state = common.BusyWorkerState
	}

	return common.WorkerView{
		Worker: worker,
		Alive:  alive,
		State:  state,
	}
}

func ClassifyWorkers(now time.Time, workers []common.WorkerStats) []common.WorkerView {
	views := make([]common.WorkerView, 0, len(workers))
	for _, w := range workers {
		views = append(views, ClassifyWorker(now, w))
	}
	return views
}
