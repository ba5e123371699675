package services

import (
	"testing"
	"time"

	"github.com/n0rdy/widaconsole/store"

	"github.com/stretchr/testify/assert"
)

func TestMonitoringService_IsHealthy(t *testing.T) {
	viewState := store.NewViewState()
	ms := NewMonitoringService(viewState, 15*time.Second)

	assert.False(t, ms.IsHealthy())

	viewState.SetLeader(false)
	assert.True(t, ms.IsHealthy())

	ms.now = func() time.Time { return time.Now().Add(time.Minute) }
	assert.False(t, ms.IsHealthy())
}
