package services

import (
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/stats"
	"github.com/n0rdy/widaconsole/store"
)

const (
	recentJobsCount = 5
)

// DashboardService builds the page models of the display surfaces.
// Everything is derived from a single view-state snapshot per call, nothing is cached.
type DashboardService struct {
	viewState *store.ViewState
	now       func() time.Time
}

func NewDashboardService(viewState *store.ViewState) *DashboardService {
	return &DashboardService{
		viewState: viewState,
		now:       time.Now,
	}
}

func (ds *DashboardService) Dashboard() common.DashboardPageData {
	snap := ds.viewState.Snapshot()
	return common.DashboardPageData{
		Stats:         stats.GlobalCounters(snap.Jobs, snap.Dlq),
		ActiveWorkers: len(snap.Workers),
		Scheduler:     stats.SchedulerBanner(snap.IsLeader),
		Histogram:     stats.StatusHistogram(snap.Jobs, snap.Dlq),
		Backlog:       stats.QueueBacklog(snap.Jobs),
		RecentJobs:    stats.RecentJobs(snap.Jobs, recentJobsCount),
	}
}

func (ds *DashboardService) Queues() common.QueuesPageData {
	snap := ds.viewState.Snapshot()
	return common.QueuesPageData{
		Queues: stats.QueueSummaries(snap.Jobs, snap.Dlq),
	}
}

func (ds *DashboardService) Jobs() common.JobsPageData {
	return common.JobsPageData{
		Jobs: ds.viewState.Snapshot().Jobs,
	}
}

// Job returns the inspector data of a job, or nil if the current snapshot doesn't contain it
func (ds *DashboardService) Job(jobId string) *common.JobPageData {
	job, ok := stats.FindJob(ds.viewState.Snapshot().Jobs, jobId)
	if !ok {
		return nil
	}
	return &common.JobPageData{
		Job:           job,
		PrettyPayload: FormatPayload(string(job.Payload)),
		CanRetry:      job.Status == common.FailedStatus,
	}
}

func (ds *DashboardService) Workers() common.WorkersPageData {
	return common.WorkersPageData{
		Workers: stats.ClassifyWorkers(ds.now(), ds.viewState.Snapshot().Workers),
	}
}

func (ds *DashboardService) Scheduler() common.SchedulerPageData {
	snap := ds.viewState.Snapshot()
	return common.SchedulerPageData{
		Scheduler:      stats.SchedulerBanner(snap.IsLeader),
		CronJobs:       stats.CronEntries(snap.Jobs, ds.now()),
		DependencyJobs: stats.DependencyJobs(snap.Jobs),
	}
}

func (ds *DashboardService) Dlq() common.DlqPageData {
	return common.DlqPageData{
		Entries: ds.viewState.Snapshot().Dlq,
	}
}

// DlqExport returns the CSV export of the DLQ, and false when there is nothing to export
func (ds *DashboardService) DlqExport() (string, bool) {
	dlq := ds.viewState.Snapshot().Dlq
	if len(dlq) == 0 {
		return "", false
	}
	return stats.ExportDLQCSV(dlq), true
}

func (ds *DashboardService) View() common.ViewResponse {
	snap := ds.viewState.Snapshot()
	return common.ViewResponse{
		Version:   snap.Version,
		SyncedAt:  snap.SyncedAt,
		Jobs:      snap.Jobs,
		Workers:   stats.ClassifyWorkers(ds.now(), snap.Workers),
		Dlq:       snap.Dlq,
		Scheduler: stats.SchedulerBanner(snap.IsLeader),
		Stats:     stats.GlobalCounters(snap.Jobs, snap.Dlq),
		Histogram: stats.StatusHistogram(snap.Jobs, snap.Dlq),
		Backlog:   stats.QueueBacklog(snap.Jobs),
	}
}

func (ds *DashboardService) Stats() common.StatsResponse {
	snap := ds.viewState.Snapshot()
	return common.StatsResponse{
		Stats:     stats.GlobalCounters(snap.Jobs, snap.Dlq),
		Histogram: stats.StatusHistogram(snap.Jobs, snap.Dlq),
		Backlog:   stats.QueueBacklog(snap.Jobs),
		Queues:    stats.QueueSummaries(snap.Jobs, snap.Dlq),
		Scheduler: stats.SchedulerBanner(snap.IsLeader),
	}
}
