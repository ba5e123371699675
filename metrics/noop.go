package metrics

import (
	"net/http"
	"time"
)

type NoopMetricsService struct {
}

func newNoopMetricsService() *NoopMetricsService {
	return &NoopMetricsService{}
}

func (nms *NoopMetricsService) IncPollCyclesTotal(outcome string) {
	// no-op
}

func (nms *NoopMetricsService) IncFetchFailuresTotal(resource string) {
	// no-op
}

func (nms *NoopMetricsService) ObservePollCycleDuration(duration time.Duration) {
	// no-op
}

func (nms *NoopMetricsService) SetCollectionSize(resource string, size int) {
	// no-op
}

func (nms *NoopMetricsService) SetSchedulerLeader(isLeader bool) {
	// no-op
}

func (nms *NoopMetricsService) IncEnqueueRequestsTotal(result string) {
	// no-op
}

func (nms *NoopMetricsService) SetQueueBacklog(queueName string, pending int) {
	// no-op
}

func (nms *NoopMetricsService) Handler() http.Handler {
	return http.NotFoundHandler()
}
