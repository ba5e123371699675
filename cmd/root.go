package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/configs"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the console CLI
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logFormat string
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "widaconsole",
		Short:        "Monitoring console for the Wida job platform",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			if !cmd.Flags().Changed("log-level") {
				if envLevel := os.Getenv(configs.LogLevelEnv); envLevel != "" {
					logLevel = envLevel
				}
			}
			return setupLogger(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", zerolog.LevelInfoValue, "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with WIDA_CONSOLE_* variables, ignored when missing")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", common.ConsoleLogFormat, "log format: console or json")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newEnqueueCmd())
	return rootCmd
}

func setupLogger(level string, format string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if !common.SupportedLogFormats[format] {
		return fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(parsedLevel)
	if format == common.ConsoleLogFormat {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

// loadAppConfigs builds the configuration from the defaults, the environment and finally the flags of the command
func loadAppConfigs(cmd *cobra.Command) *configs.AppConfigs {
	appConfigs := configs.NewAppConfig()
	appConfigs.ApplyEnv()

	flags := cmd.Flags()
	if flags.Lookup("backend-url") != nil && flags.Changed("backend-url") {
		backendUrl, _ := flags.GetString("backend-url")
		appConfigs.BackendUrl = strings.TrimRight(backendUrl, "/")
	}
	return appConfigs
}
