// Package stats derives dashboard aggregates from view-state snapshots.
// Every function is pure: same snapshot in, same result out, nothing cached.
package stats

import (
	"github.com/n0rdy/widaconsole/common"
)

const (
	defaultQueueName = "default"
)

// dead jobs are never part of the jobs collection, so they are counted over the DLQ only
var histogramStatuses = []struct {
	name   string
	status common.JobStatus
}{
	{name: "Pending", status: common.PendingStatus},
	{name: "Running", status: common.RunningStatus},
	{name: "Success", status: common.SuccessStatus},
	{name: "Failed", status: common.FailedStatus},
}

func GlobalCounters(jobs []common.Job, dlq []common.DLQJob) common.GlobalStats {
	return common.GlobalStats{
		TotalJobs:   len(jobs),
		RunningJobs: countByStatus(jobs, common.RunningStatus),
		FailedJobs:  countByStatus(jobs, common.FailedStatus),
		DeadJobs:    len(dlq),
	}
}

// StatusHistogram counts jobs per status plus a "Dead" bucket for the DLQ. Empty buckets are omitted.
func StatusHistogram(jobs []common.Job, dlq []common.DLQJob) []common.StatusBucket {
	buckets := []common.StatusBucket{}
	for _, hs := range histogramStatuses {
		if count := countByStatus(jobs, hs.status); count > 0 {
			buckets = append(buckets, common.StatusBucket{Name: hs.name, Count: count})
		}
	}
	if len(dlq) > 0 {
		buckets = append(buckets, common.StatusBucket{Name: "Dead", Count: len(dlq)})
	}
	return buckets
}

// QueueBacklog groups pending jobs by queue, in order of the queue's first occurrence
func QueueBacklog(jobs []common.Job) []common.QueueBacklog {
	backlog := []common.QueueBacklog{}
	index := make(map[string]int)
	for _, job := range jobs {
		if job.Status != common.PendingStatus {
			continue
		}
		i, ok := index[job.Queue]
		if !ok {
			i = len(backlog)
			index[job.Queue] = i
			backlog = append(backlog, common.QueueBacklog{Name: job.Queue})
		}
		backlog[i].Pending++
	}
	return backlog
}

// QueueSummaries returns counters for every queue seen in jobs, followed by queues seen only in the DLQ.
// A single empty "default" queue is reported when there is nothing at all.
func QueueSummaries(jobs []common.Job, dlq []common.DLQJob) []common.QueueSummary {
	summaries := []common.QueueSummary{}
	index := make(map[string]int)
	summaryOf := func(queue string) *common.QueueSummary {
		i, ok := index[queue]
		if !ok {
			i = len(summaries)
			index[queue] = i
			summaries = append(summaries, common.QueueSummary{Name: queue})
		}
		return &summaries[i]
	}

	for _, job := range jobs {
		qs := summaryOf(job.Queue)
		switch job.Status {
		case common.PendingStatus:
			qs.Pending++
		case common.RunningStatus:
			qs.Running++
		case common.FailedStatus:
			qs.Failed++
		}
	}
	for _, dead := range dlq {
		summaryOf(dead.Queue).Dead++
	}

	if len(summaries) == 0 {
		summaries = append(summaries, common.QueueSummary{Name: defaultQueueName})
	}
	return summaries
}

func CronJobs(jobs []common.Job) []common.Job {
	cronJobs := []common.Job{}
	for _, job := range jobs {
		if job.CronExpr != "" {
			cronJobs = append(cronJobs, job)
		}
	}
	return cronJobs
}

// DependencyJobs is a flat membership view: no traversal, cycle detection or ordering is done here
func DependencyJobs(jobs []common.Job) []common.DependencyEntry {
	entries := []common.DependencyEntry{}
	for _, job := range jobs {
		if len(job.Dependencies) == 0 {
			continue
		}
		entries = append(entries, common.DependencyEntry{
			JobId:        job.Id,
			Queue:        job.Queue,
			Dependencies: job.Dependencies,
		})
	}
	return entries
}

// RecentJobs returns the first n jobs in the order the backend reported them
func RecentJobs(jobs []common.Job, n int) []common.Job {
	if n < 0 {
		n = 0
	}
	if len(jobs) < n {
		n = len(jobs)
	}
	return jobs[:n:n]
}

func FindJob(jobs []common.Job, jobId string) (common.Job, bool) {
	for _, job := range jobs {
		if job.Id == jobId {
			return job, true
		}
	}
	return common.Job{}, false
}

func countByStatus(jobs []common.Job, status common.JobStatus) int {
	count := 0
	for _, job := range jobs {
		if job.Status == status {
			count++
		}
	}
	return count
}
