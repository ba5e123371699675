package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n0rdy/widaconsole/api"
	"github.com/n0rdy/widaconsole/backend"
	"github.com/n0rdy/widaconsole/configs"
	jobsmetrics "github.com/n0rdy/widaconsole/jobs/metrics"
	"github.com/n0rdy/widaconsole/jobs/polling"
	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/services"
	"github.com/n0rdy/widaconsole/store"
	"github.com/n0rdy/widaconsole/ui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Polls the backend and serves the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfigs := loadAppConfigs(cmd)
			flags := cmd.Flags()
			if flags.Changed("addr") {
				appConfigs.ListenAddr, _ = flags.GetString("addr")
			}
			if flags.Changed("metrics") {
				appConfigs.MetricsEnabled, _ = flags.GetBool("metrics")
			}
			if flags.Changed("csrf") {
				appConfigs.CsrfEnabled, _ = flags.GetBool("csrf")
			}
			if flags.Changed("poll-interval-ms") {
				appConfigs.PollIntervalMs, _ = flags.GetInt64("poll-interval-ms")
				appConfigs.FetchTimeoutMs = appConfigs.PollIntervalMs
			}
			if appConfigs.PollIntervalMs <= 0 {
				return fmt.Errorf("poll interval must be positive, got %d ms", appConfigs.PollIntervalMs)
			}
			return serve(cmd.Context(), appConfigs)
		},
	}

	serveCmd.Flags().String("backend-url", "", "base URL of the job platform API")
	serveCmd.Flags().String("addr", "", "address to listen on")
	serveCmd.Flags().Bool("metrics", true, "expose Prometheus metrics on /metrics")
	serveCmd.Flags().Bool("csrf", true, "CSRF protection of the UI forms")
	serveCmd.Flags().Int64("poll-interval-ms", configs.NewAppConfig().PollIntervalMs, "interval between poll cycles in milliseconds")
	return serveCmd
}

func serve(ctx context.Context, appConfigs *configs.AppConfigs) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("backend_url", appConfigs.BackendUrl).
		Str("addr", appConfigs.ListenAddr).
		Int64("poll_interval_ms", appConfigs.PollIntervalMs).
		Bool("metrics", appConfigs.MetricsEnabled).
		Msg("starting console")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metricsService := metrics.NewMetricsService(appConfigs.MetricsEnabled, registry)

	client := backend.NewClient(appConfigs.BackendUrl, &http.Client{})
	viewState := store.NewViewState()

	pollingJob := polling.NewPollingJob(client, viewState, metricsService, appConfigs.PollInterval(), appConfigs.FetchTimeout())
	defer func() {
		pollingJob.Close()
		pollingJob.Wait()
	}()
	backlogMetricsJob := jobsmetrics.NewQueueBacklogMetricsJob(metricsService, viewState, appConfigs.BacklogMetricsIntervalMs)
	defer backlogMetricsJob.Close()

	dashboardService := services.NewDashboardService(viewState)
	enqueueService := services.NewEnqueueService(client, pollingJob, metricsService, appConfigs)
	monitoringService := services.NewMonitoringService(viewState, appConfigs.StaleAfter())

	uiRouter := ui.NewRouter(dashboardService, enqueueService, appConfigs.CsrfEnabled, appConfigs.PollIntervalMs)
	apiRouter := api.NewRouter(dashboardService, enqueueService, monitoringService, metricsService, uiRouter.NewRouter())

	server := &http.Server{
		Addr:              appConfigs.ListenAddr,
		Handler:           http.TimeoutHandler(apiRouter.NewRouter(), appConfigs.ServerConfig.Timeouts.Handle, "timeout"),
		WriteTimeout:      appConfigs.ServerConfig.Timeouts.Write,
		ReadTimeout:       appConfigs.ServerConfig.Timeouts.Read,
		ReadHeaderTimeout: appConfigs.ServerConfig.Timeouts.ReadHeader,
		IdleTimeout:       appConfigs.ServerConfig.Timeouts.Idle,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error().Err(err).Msg("server failed")
		return err
	case <-ctx.Done():
		log.Info().Msg("server shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed, closing server")
		if err := server.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close server")
			return err
		}
	}
	log.Info().Msg("server shutdown")
	return nil
}
