package stats

import (
	"time"

	"github.com/n0rdy/widaconsole/common"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func SchedulerBanner(isLeader bool) common.SchedulerBanner {
	if isLeader {
		return common.SchedulerBanner{IsLeader: true, Label: "Leader", ElectionLabel: "Master"}
	}
	return common.SchedulerBanner{IsLeader: false, Label: "Standby", ElectionLabel: "Follower"}
}

// NextCronRun returns the next fire time after now. The expression is only parsed for display,
// the backend's scheduler is the authority on what it accepts.
func NextCronRun(expr string, now time.Time) (time.Time, bool) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, false
	}
	next := schedule.Next(now)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

func CronEntries(jobs []common.Job, now time.Time) []common.CronEntry {
	cronJobs := CronJobs(jobs)
	entries := make([]common.CronEntry, 0, len(cronJobs))
	for _, job := range cronJobs {
		entry := common.CronEntry{Job: job}
		if next, ok := NextCronRun(job.CronExpr, now); ok {
			entry.Valid = true
			entry.NextRun = &next
		}
		entries = append(entries, entry)
	}
	return entries
}
