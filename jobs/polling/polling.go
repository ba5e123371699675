package polling

import (
	"context"
	"sync"
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Fetcher reads one snapshot of each resource from the backend
type Fetcher interface {
	FetchJobs(ctx context.Context) ([]common.Job, error)
	FetchWorkers(ctx context.Context) ([]common.WorkerStats, error)
	FetchDLQ(ctx context.Context) ([]common.DLQJob, error)
	FetchSchedulerStatus(ctx context.Context) (bool, error)
}

// CycleReport describes a settled poll cycle. A nil error means the resource was fetched successfully.
type CycleReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Errors    map[string]error
}

func (cr CycleReport) Outcome() string {
	failed := 0
	for _, err := range cr.Errors {
		if err != nil {
			failed++
		}
	}
	switch failed {
	case 0:
		return metrics.SucceededCycleOutcome
	case len(common.Resources):
		return metrics.FailedCycleOutcome
	default:
		return metrics.PartialCycleOutcome
	}
}

type cycleResults struct {
	jobs     []common.Job
	workers  []common.WorkerStats
	dlq      []common.DLQJob
	isLeader bool
	report   CycleReport
}

// PollingJob runs poll cycles on a fixed cadence. Timer ticks are skipped while a cycle is in flight;
// Refresh requests made during a cycle are coalesced into a single follow-up cycle.
type PollingJob struct {
	fetcher        Fetcher
	viewState      *store.ViewState
	metricsService metrics.Service
	fetchTimeout   time.Duration

	ticker *time.Ticker
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	inFlight   bool
	pending    bool
	closed     bool
	lastReport *CycleReport
}

// NewPollingJob starts polling right away: the first cycle is launched asynchronously, the next ones every interval
func NewPollingJob(fetcher Fetcher, viewState *store.ViewState, metricsService metrics.Service, interval time.Duration, fetchTimeout time.Duration) *PollingJob {
	ctx, cancel := context.WithCancel(context.Background())

	j := &PollingJob{
		fetcher:        fetcher,
		viewState:      viewState,
		metricsService: metricsService,
		fetchTimeout:   fetchTimeout,
		ticker:         time.NewTicker(interval),
		done:           make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.startCycle(false)
		for {
			select {
			case <-j.ticker.C:
				j.startCycle(false)
			case <-j.done:
				return
			}
		}
	}()

	return j
}

// Refresh requests an extra cycle outside the timer cadence, e.g. right after a job was submitted
func (j *PollingJob) Refresh() {
	j.startCycle(true)
}

func (j *PollingJob) LastReport() (CycleReport, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.lastReport == nil {
		return CycleReport{}, false
	}
	return *j.lastReport, true
}

// Close stops the timer and cancels in-flight requests. Results landing afterwards are discarded.
func (j *PollingJob) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	j.ticker.Stop()
	close(j.done)
	j.cancel()
	return nil
}

// Wait blocks until the timer loop and every in-flight cycle returned. Only meaningful after Close.
func (j *PollingJob) Wait() {
	j.wg.Wait()
}

func (j *PollingJob) startCycle(requested bool) {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	if j.inFlight {
		if requested {
			j.pending = true
		} else {
			j.metricsService.IncPollCyclesTotal(metrics.SkippedCycleOutcome)
			log.Debug().Msg("poll cycle still in flight, skipping tick")
		}
		j.mu.Unlock()
		return
	}
	j.inFlight = true
	j.wg.Add(1)
	j.mu.Unlock()

	go j.runCycle()
}

func (j *PollingJob) runCycle() {
	defer j.wg.Done()

	results := fetchAll(j.ctx, j.fetcher, j.fetchTimeout)

	j.mu.Lock()
	if j.closed {
		j.inFlight = false
		j.pending = false
		j.mu.Unlock()
		j.metricsService.IncPollCyclesTotal(metrics.DiscardedCycleOutcome)
		log.Debug().Msg("poll cycle settled after teardown, discarding results")
		return
	}
	commit(j.viewState, j.metricsService, results)
	j.lastReport = &results.report
	j.inFlight = false
	followUp := j.pending
	j.pending = false
	j.mu.Unlock()

	if followUp {
		j.startCycle(true)
	}
}

// RunOnce runs a single synchronous cycle and commits its results into the view-state
func RunOnce(ctx context.Context, fetcher Fetcher, viewState *store.ViewState, metricsService metrics.Service, fetchTimeout time.Duration) CycleReport {
	results := fetchAll(ctx, fetcher, fetchTimeout)
	commit(viewState, metricsService, results)
	return results.report
}

// fetchAll launches the four fetches concurrently and waits for all of them to settle
func fetchAll(ctx context.Context, fetcher Fetcher, fetchTimeout time.Duration) *cycleResults {
	results := &cycleResults{
		report: CycleReport{
			StartedAt: time.Now(),
			Errors:    make(map[string]error, len(common.Resources)),
		},
	}

	var jobsErr, workersErr, dlqErr, schedulerErr error
	var g errgroup.Group
	g.Go(func() error {
		fctx, cancel := withFetchTimeout(ctx, fetchTimeout)
		defer cancel()
		results.jobs, jobsErr = fetcher.FetchJobs(fctx)
		return nil
	})
	g.Go(func() error {
		fctx, cancel := withFetchTimeout(ctx, fetchTimeout)
		defer cancel()
		results.workers, workersErr = fetcher.FetchWorkers(fctx)
		return nil
	})
	g.Go(func() error {
		fctx, cancel := withFetchTimeout(ctx, fetchTimeout)
		defer cancel()
		results.dlq, dlqErr = fetcher.FetchDLQ(fctx)
		return nil
	})
	g.Go(func() error {
		fctx, cancel := withFetchTimeout(ctx, fetchTimeout)
		defer cancel()
		results.isLeader, schedulerErr = fetcher.FetchSchedulerStatus(fctx)
		return nil
	})
	g.Wait()

	results.report.Duration = time.Since(results.report.StartedAt)
	results.report.Errors[common.JobsResource] = jobsErr
	results.report.Errors[common.WorkersResource] = workersErr
	results.report.Errors[common.DlqResource] = dlqErr
	results.report.Errors[common.SchedulerResource] = schedulerErr
	return results
}

// commit writes every successfully fetched resource into the view-state; failed ones keep their previous snapshot
func commit(viewState *store.ViewState, metricsService metrics.Service, results *cycleResults) {
	for _, resource := range common.Resources {
		err := results.report.Errors[resource]
		if err != nil {
			log.Warn().Err(err).Str("resource", resource).Msg("failed to fetch resource, keeping previous snapshot")
			metricsService.IncFetchFailuresTotal(resource)
			continue
		}

		switch resource {
		case common.JobsResource:
			viewState.ReplaceJobs(results.jobs)
			metricsService.SetCollectionSize(resource, len(results.jobs))
		case common.WorkersResource:
			viewState.ReplaceWorkers(results.workers)
			metricsService.SetCollectionSize(resource, len(results.workers))
		case common.DlqResource:
			viewState.ReplaceDLQ(results.dlq)
			metricsService.SetCollectionSize(resource, len(results.dlq))
		case common.SchedulerResource:
			viewState.SetLeader(results.isLeader)
			metricsService.SetSchedulerLeader(results.isLeader)
		}
	}

	metricsService.IncPollCyclesTotal(results.report.Outcome())
	metricsService.ObservePollCycleDuration(results.report.Duration)
}

func withFetchTimeout(ctx context.Context, fetchTimeout time.Duration) (context.Context, context.CancelFunc) {
	if fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, fetchTimeout)
}
