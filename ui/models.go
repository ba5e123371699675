package ui

import (
	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/services"
)

type TemplateData struct {
	Title          string
	Tab            string
	Error          string
	CsrfToken      string
	RefreshSeconds int // 0 disables the auto-refresh of the page
	// page specific data, only one is set
	Dashboard *common.DashboardPageData
	Queues    *common.QueuesPageData
	Jobs      *common.JobsPageData
	Job       *common.JobPageData
	Workers   *common.WorkersPageData
	Scheduler *common.SchedulerPageData
	Dlq       *common.DlqPageData
	Form      *services.EnqueueForm
}
