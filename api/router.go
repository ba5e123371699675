package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/services"
	"github.com/n0rdy/widaconsole/stats"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Router struct {
	dashboardService  *services.DashboardService
	enqueueService    *services.EnqueueService
	monitoringService *services.MonitoringService
	metricsService    metrics.Service
	uiHandler         http.Handler
}

func NewRouter(
	dashboardService *services.DashboardService,
	enqueueService *services.EnqueueService,
	monitoringService *services.MonitoringService,
	metricsService metrics.Service,
	uiHandler http.Handler,
) *Router {
	return &Router{
		dashboardService:  dashboardService,
		enqueueService:    enqueueService,
		monitoringService: monitoringService,
		metricsService:    metricsService,
		uiHandler:         uiHandler,
	}
}

func (ar *Router) NewRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(requestLogger)

	router.Get("/", ar.redirectToUI)
	router.Get("/healthcheck", ar.healthcheck)
	router.Method(http.MethodGet, "/metrics", ar.metricsService.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/view", ar.view)
		r.Get("/stats", ar.stats)
		r.Get("/dlq/export.csv", ar.exportDlq)
		r.Post("/jobs", ar.enqueueJob)
	})

	if ar.uiHandler != nil {
		router.Mount("/ui", ar.uiHandler)
	}

	return router
}

func (ar *Router) redirectToUI(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, "/ui/", http.StatusFound)
}

func (ar *Router) healthcheck(w http.ResponseWriter, req *http.Request) {
	if !ar.monitoringService.IsHealthy() {
		ar.sendErrorResponse(w, http.StatusServiceUnavailable, common.ErrCodeUnhealthy)
		return
	}
	ar.sendNoContentEmptyResponse(w)
}

func (ar *Router) view(w http.ResponseWriter, req *http.Request) {
	ar.sendJsonResponse(w, http.StatusOK, ar.dashboardService.View())
}

func (ar *Router) stats(w http.ResponseWriter, req *http.Request) {
	ar.sendJsonResponse(w, http.StatusOK, ar.dashboardService.Stats())
}

func (ar *Router) exportDlq(w http.ResponseWriter, req *http.Request) {
	csv, ok := ar.dashboardService.DlqExport()
	if !ok {
		ar.sendNoContentEmptyResponse(w)
		return
	}
	ar.sendCsvResponse(w, stats.DlqExportFileName, csv)
}

func (ar *Router) enqueueJob(w http.ResponseWriter, req *http.Request) {
	var form services.EnqueueForm
	err := json.NewDecoder(req.Body).Decode(&form)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		ar.sendErrorResponse(w, http.StatusBadRequest, common.ErrCodeBadRequestInvalidBody)
		return
	}

	sent, err := ar.enqueueService.Submit(req.Context(), form)
	if err != nil {
		ar.sendResponseFromError(w, err)
		return
	}
	ar.sendJsonResponse(w, http.StatusAccepted, common.EnqueueResponse{Job: sent})
}

func (ar *Router) sendNoContentEmptyResponse(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (ar *Router) sendJsonResponse(w http.ResponseWriter, httpCode int, payload interface{}) {
	respBody, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling response body")
		ar.sendErrorResponse(w, http.StatusInternalServerError, common.ErrCodeInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	w.Write(respBody)
}

func (ar *Router) sendErrorResponse(w http.ResponseWriter, httpCode int, errCode string) {
	ar.sendJsonResponse(w, httpCode, common.ErrorResponse{Code: errCode})
}

func (ar *Router) sendResponseFromError(w http.ResponseWriter, err error) {
	var ce common.ConsoleError
	if !errors.As(err, &ce) {
		ar.sendErrorResponse(w, http.StatusInternalServerError, common.ErrCodeInternal)
		return
	}
	switch {
	case common.IsValidationError(ce):
		ar.sendErrorResponse(w, http.StatusBadRequest, ce.Code)
	case ce.Code == common.ErrCodeEnqueueRejected, ce.Code == common.ErrCodeEnqueueUnreachable:
		ar.sendErrorResponse(w, http.StatusBadGateway, ce.Code)
	default:
		ar.sendErrorResponse(w, http.StatusInternalServerError, ce.Code)
	}
}

func (ar *Router) sendCsvResponse(w http.ResponseWriter, fileName string, csv string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}
