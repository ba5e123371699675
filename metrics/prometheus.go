package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusMetricsService struct {
	registry             *prometheus.Registry
	pollCyclesTotal      *prometheus.CounterVec
	fetchFailuresTotal   *prometheus.CounterVec
	pollCycleDuration    prometheus.Histogram
	collectionSize       *prometheus.GaugeVec
	schedulerLeader      prometheus.Gauge
	enqueueRequestsTotal *prometheus.CounterVec
	queueBacklog         *prometheus.GaugeVec
}

func newPrometheusMetricsService(registry *prometheus.Registry) *PrometheusMetricsService {
	srv := &PrometheusMetricsService{
		registry: registry,

		pollCyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wida_console_poll_cycles_total",
				Help: "Total number of poll cycles by outcome",
			},
			[]string{"outcome"},
		),

		// a failed fetch keeps the previous snapshot of the resource, so this is also the number of stale commits skipped
		fetchFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wida_console_poll_fetch_failures_total",
				Help: "Total number of failed resource fetches",
			},
			[]string{"resource"},
		),

		pollCycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wida_console_poll_cycle_duration_seconds",
				Help:    "Duration of poll cycles, from launch of the fetches until all of them settled",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
			},
		),

		collectionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wida_console_collection_size",
				Help: "Number of elements in the last committed snapshot of a resource",
			},
			[]string{"resource"},
		),

		schedulerLeader: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wida_console_scheduler_leader",
				Help: "1 if the backend scheduler reports holding leadership, 0 otherwise",
			},
		),

		enqueueRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wida_console_enqueue_requests_total",
				Help: "Total number of job submissions by result",
			},
			[]string{"result"},
		),

		queueBacklog: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wida_console_queue_backlog",
				Help: "Number of pending jobs per queue in the current view-state",
			},
			[]string{"queue_name"},
		),
	}

	registry.MustRegister(srv.pollCyclesTotal)
	registry.MustRegister(srv.fetchFailuresTotal)
	registry.MustRegister(srv.pollCycleDuration)
	registry.MustRegister(srv.collectionSize)
	registry.MustRegister(srv.schedulerLeader)
	registry.MustRegister(srv.enqueueRequestsTotal)
	registry.MustRegister(srv.queueBacklog)

	return srv
}

func (pms *PrometheusMetricsService) IncPollCyclesTotal(outcome string) {
	pms.pollCyclesTotal.WithLabelValues(outcome).Inc()
}

func (pms *PrometheusMetricsService) IncFetchFailuresTotal(resource string) {
	pms.fetchFailuresTotal.WithLabelValues(resource).Inc()
}

func (pms *PrometheusMetricsService) ObservePollCycleDuration(duration time.Duration) {
	pms.pollCycleDuration.Observe(duration.Seconds())
}

func (pms *PrometheusMetricsService) SetCollectionSize(resource string, size int) {
	pms.collectionSize.WithLabelValues(resource).Set(float64(size))
}

func (pms *PrometheusMetricsService) SetSchedulerLeader(isLeader bool) {
	if isLeader {
		pms.schedulerLeader.Set(1)
	} else {
		pms.schedulerLeader.Set(0)
	}
}

func (pms *PrometheusMetricsService) IncEnqueueRequestsTotal(result string) {
	pms.enqueueRequestsTotal.WithLabelValues(result).Inc()
}

// SetQueueBacklog drops gauges of queues that have no pending jobs anymore, to not report stale backlogs forever
func (pms *PrometheusMetricsService) SetQueueBacklog(queueName string, pending int) {
	if pending == 0 {
		pms.queueBacklog.DeleteLabelValues(queueName)
		return
	}
	pms.queueBacklog.WithLabelValues(queueName).Set(float64(pending))
}

func (pms *PrometheusMetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(pms.registry, promhttp.HandlerOpts{})
}
