package services

import (
	"time"

	"github.com/n0rdy/widaconsole/store"
)

type MonitoringService struct {
	viewState  *store.ViewState
	staleAfter time.Duration
	now        func() time.Time
}

func NewMonitoringService(viewState *store.ViewState, staleAfter time.Duration) *MonitoringService {
	return &MonitoringService{
		viewState:  viewState,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// IsHealthy reports whether at least one resource was synced recently. The view-state is unhealthy before the first sync.
func (ms *MonitoringService) IsHealthy() bool {
	lastSync := ms.viewState.Snapshot().LastSync()
	if lastSync.IsZero() {
		return false
	}
	return ms.now().Sub(lastSync) < ms.staleAfter
}
