package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/services"
	"github.com/n0rdy/widaconsole/stats"

	"github.com/go-chi/chi/v5"
	"github.com/justinas/nosurf"
	"github.com/rs/zerolog/log"
)

type Router struct {
	dashboardService *services.DashboardService
	enqueueService   *services.EnqueueService
	csrfEnabled      bool
	refreshSeconds   int
}

func NewRouter(dashboardService *services.DashboardService, enqueueService *services.EnqueueService, csrfEnabled bool, pollIntervalMs int64) *Router {
	refreshSeconds := int((pollIntervalMs + 999) / 1000)
	if refreshSeconds < 1 {
		refreshSeconds = 1
	}
	return &Router{
		dashboardService: dashboardService,
		enqueueService:   enqueueService,
		csrfEnabled:      csrfEnabled,
		refreshSeconds:   refreshSeconds,
	}
}

// NewRouter returns the routes of the console, to be mounted under /ui
func (ur *Router) NewRouter() *chi.Mux {
	router := chi.NewRouter()
	if ur.csrfEnabled {
		router.Use(csrfProtection)
	}

	router.Get("/", ur.dashboard)
	router.Get("/queues", ur.queues)
	router.Get("/jobs", ur.jobs)
	router.Get("/jobs/{jobId}", ur.jobDetails)
	router.Get("/workers", ur.workers)
	router.Get("/scheduler", ur.scheduler)
	router.Route("/dlq", func(r chi.Router) {
		r.Get("/", ur.dlq)
		r.Get("/export.csv", ur.exportDlq)
	})
	router.Route("/enqueue", func(r chi.Router) {
		r.Get("/", ur.enqueuePage)
		r.Post("/", ur.processEnqueue)
		r.Post("/format", ur.formatPayload)
	})

	return router
}

func (ur *Router) dashboard(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Dashboard()
	data := ur.templateData(req, "Dashboard", "dashboard")
	data.Dashboard = &page
	RenderTemplate(w, http.StatusOK, "dashboard.html", data)
}

func (ur *Router) queues(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Queues()
	data := ur.templateData(req, "Queues", "queues")
	data.Queues = &page
	RenderTemplate(w, http.StatusOK, "queues.html", data)
}

func (ur *Router) jobs(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Jobs()
	data := ur.templateData(req, "Jobs", "jobs")
	data.Jobs = &page
	RenderTemplate(w, http.StatusOK, "jobs.html", data)
}

func (ur *Router) jobDetails(w http.ResponseWriter, req *http.Request) {
	jobId := chi.URLParam(req, "jobId")

	data := ur.templateData(req, jobId+" - Job Inspector", "jobs")
	data.Job = ur.dashboardService.Job(jobId)
	if data.Job == nil {
		data.Error = "Job " + jobId + " is not in the current snapshot"
		RenderTemplate(w, http.StatusNotFound, "job.html", data)
		return
	}
	RenderTemplate(w, http.StatusOK, "job.html", data)
}

func (ur *Router) workers(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Workers()
	data := ur.templateData(req, "Workers", "workers")
	data.Workers = &page
	RenderTemplate(w, http.StatusOK, "workers.html", data)
}

func (ur *Router) scheduler(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Scheduler()
	data := ur.templateData(req, "Scheduler", "scheduler")
	data.Scheduler = &page
	RenderTemplate(w, http.StatusOK, "scheduler.html", data)
}

func (ur *Router) dlq(w http.ResponseWriter, req *http.Request) {
	page := ur.dashboardService.Dlq()
	data := ur.templateData(req, "Dead Letter Queue", "dlq")
	data.Dlq = &page
	RenderTemplate(w, http.StatusOK, "dlq.html", data)
}

func (ur *Router) exportDlq(w http.ResponseWriter, req *http.Request) {
	csv, ok := ur.dashboardService.DlqExport()
	if !ok {
		// nothing to export
		http.Redirect(w, req, "/ui/dlq", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+stats.DlqExportFileName+`"`)
	w.Write([]byte(csv))
}

func (ur *Router) enqueuePage(w http.ResponseWriter, req *http.Request) {
	form := ur.enqueueService.NewEnqueueForm()
	ur.renderEnqueueForm(w, req, http.StatusOK, &form, "")
}

func (ur *Router) processEnqueue(w http.ResponseWriter, req *http.Request) {
	form, err := parseEnqueueForm(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse enqueue form")
		ur.renderEnqueueForm(w, req, http.StatusBadRequest, form, "Invalid form data")
		return
	}

	_, err = ur.enqueueService.Submit(req.Context(), *form)
	if err != nil {
		httpCode := http.StatusBadGateway
		if common.IsValidationError(err) {
			httpCode = http.StatusBadRequest
		}
		ur.renderEnqueueForm(w, req, httpCode, form, common.UserMessage(err))
		return
	}

	// the job list shows the new job as soon as the refresh cycle lands
	http.Redirect(w, req, "/ui/jobs", http.StatusSeeOther)
}

func (ur *Router) formatPayload(w http.ResponseWriter, req *http.Request) {
	form, err := parseEnqueueForm(req)
	if err != nil {
		ur.renderEnqueueForm(w, req, http.StatusBadRequest, form, "Invalid form data")
		return
	}
	form.Payload = services.FormatPayload(form.Payload)
	ur.renderEnqueueForm(w, req, http.StatusOK, form, "")
}

func (ur *Router) renderEnqueueForm(w http.ResponseWriter, req *http.Request, httpCode int, form *services.EnqueueForm, errMsg string) {
	data := ur.templateData(req, "Enqueue Job", "queues")
	data.RefreshSeconds = 0
	data.Form = form
	data.Error = errMsg
	RenderTemplate(w, httpCode, "enqueue.html", data)
}

func (ur *Router) templateData(req *http.Request, title string, tab string) TemplateData {
	data := TemplateData{
		Title:          title,
		Tab:            tab,
		RefreshSeconds: ur.refreshSeconds,
	}
	if ur.csrfEnabled {
		data.CsrfToken = nosurf.Token(req)
	}
	return data
}

// parseEnqueueForm always returns the typed values, so that the form can be re-rendered on errors
func parseEnqueueForm(req *http.Request) (*services.EnqueueForm, error) {
	form := &services.EnqueueForm{}
	if err := req.ParseForm(); err != nil {
		return form, err
	}

	form.Id = req.FormValue("id")
	form.Queue = req.FormValue("queue")
	form.Payload = req.FormValue("payload")
	form.CronExpr = req.FormValue("cron_expr")
	form.Dependencies = req.FormValue("dependencies")

	var err error
	if form.TimeoutMs, err = parseInt64(req.FormValue("timeout_ms")); err != nil {
		return form, err
	}
	maxRetries, err := parseInt64(req.FormValue("max_retries"))
	if err != nil {
		return form, err
	}
	form.MaxRetries = int(maxRetries)
	return form, nil
}

func parseInt64(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
