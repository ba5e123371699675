package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SucceededCycleOutcome = "succeeded" // every resource was committed
	PartialCycleOutcome   = "partial"   // some resources failed and kept their previous snapshot
	FailedCycleOutcome    = "failed"    // no resource was committed
	SkippedCycleOutcome   = "skipped"   // a cycle was still in flight when the timer fired
	DiscardedCycleOutcome = "discarded" // results landed after teardown

	AcceptedEnqueueResult = "accepted"
	InvalidEnqueueResult  = "invalid"
	FailedEnqueueResult   = "failed"
)

type Service interface {
	IncPollCyclesTotal(outcome string)
	IncFetchFailuresTotal(resource string)
	ObservePollCycleDuration(duration time.Duration)
	SetCollectionSize(resource string, size int)
	SetSchedulerLeader(isLeader bool)
	IncEnqueueRequestsTotal(result string)
	SetQueueBacklog(queueName string, pending int)
	Handler() http.Handler
}

// NewMetricsService returns a Prometheus backed service registering its collectors in the given registry,
// or a no-op one when metrics are disabled.
func NewMetricsService(metricsEnabled bool, registry *prometheus.Registry) Service {
	if metricsEnabled {
		return newPrometheusMetricsService(registry)
	}
	return newNoopMetricsService()
}
