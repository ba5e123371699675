package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/n0rdy/widaconsole/backend"
	"github.com/n0rdy/widaconsole/jobs/polling"
	"github.com/n0rdy/widaconsole/metrics"
	"github.com/n0rdy/widaconsole/services"
	"github.com/n0rdy/widaconsole/store"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Runs a single poll cycle and prints the resulting view as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfigs := loadAppConfigs(cmd)

			client := backend.NewClient(appConfigs.BackendUrl, &http.Client{})
			viewState := store.NewViewState()
			report := polling.RunOnce(cmd.Context(), client, viewState, metrics.NewMetricsService(false, nil), appConfigs.FetchTimeout())
			if report.Outcome() == metrics.FailedCycleOutcome {
				return fmt.Errorf("backend at %s could not be polled", appConfigs.BackendUrl)
			}

			out, err := json.MarshalIndent(services.NewDashboardService(viewState).View(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	snapshotCmd.Flags().String("backend-url", "", "base URL of the job platform API")
	return snapshotCmd
}
