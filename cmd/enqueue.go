package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/n0rdy/widaconsole/backend"
	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/services"

	"github.com/spf13/cobra"
)

func newEnqueueCmd() *cobra.Command {
	var id, queue, payload, cronExpr, deps string
	var timeoutMs int64
	var maxRetries int

	enqueueCmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Submits a job to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfigs := loadAppConfigs(cmd)
			client := backend.NewClient(appConfigs.BackendUrl, &http.Client{})
			enqueueService := services.NewEnqueueService(client, nil, metrics.NewMetricsService(false, nil), appConfigs)

			form := enqueueService.NewEnqueueForm()
			if id != "" {
				form.Id = id
			}
			form.Queue = queue
			form.Payload = payload
			form.CronExpr = cronExpr
			form.Dependencies = deps
			if cmd.Flags().Changed("timeout-ms") {
				form.TimeoutMs = timeoutMs
			}
			if cmd.Flags().Changed("max-retries") {
				form.MaxRetries = maxRetries
			}

			sent, err := enqueueService.Submit(cmd.Context(), form)
			if err != nil {
				return fmt.Errorf("%s: %w", common.UserMessage(err), err)
			}

			out, err := json.MarshalIndent(sent, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	flags := enqueueCmd.Flags()
	flags.String("backend-url", "", "base URL of the job platform API")
	flags.StringVar(&id, "id", "", "job ID, generated when empty")
	flags.StringVar(&queue, "queue", "", "target queue")
	flags.StringVar(&payload, "payload", "", "job payload as JSON")
	flags.StringVar(&cronExpr, "cron", "", "cron expression for recurring jobs")
	flags.StringVar(&deps, "deps", "", "comma-separated IDs of the jobs this one depends on")
	flags.Int64Var(&timeoutMs, "timeout-ms", 0, "job timeout in milliseconds")
	flags.IntVar(&maxRetries, "max-retries", 0, "maximum number of retries")
	enqueueCmd.MarkFlagRequired("queue")
	enqueueCmd.MarkFlagRequired("payload")
	return enqueueCmd
}
