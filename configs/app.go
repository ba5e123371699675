package configs

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendUrlEnv = "WIDA_CONSOLE_BACKEND_URL"
	ListenAddrEnv = "WIDA_CONSOLE_ADDR"
	MetricsEnv    = "WIDA_CONSOLE_METRICS"
	CsrfEnv       = "WIDA_CONSOLE_CSRF"
	LogLevelEnv   = "WIDA_CONSOLE_LOG_LEVEL"
)

type AppConfigs struct {
	BackendUrl               string // Base URL of the job platform API, e.g. http://localhost:8080
	ListenAddr               string // Address the console HTTP server listens on
	PollIntervalMs           int64  // Fixed period between poll cycle starts
	FetchTimeoutMs           int64  // Per-request timeout of a resource fetch. A hung fetch fails only its resource for that cycle
	EnqueueTimeoutMs         int64  // Timeout of the enqueue request
	StaleAfterMs             int64  // View-state older than this is reported as unhealthy
	BacklogMetricsIntervalMs int64  // Interval for refreshing queue backlog gauges from the view-state
	MetricsEnabled           bool
	CsrfEnabled              bool // CSRF protection of the UI forms
	DefaultRetryPolicy       RetryPolicyDefaults
	EnqueueFormDefaults      EnqueueFormDefaults
	ServerConfig             ServerConfig // Configuration for the server, including timeouts
}

// RetryPolicyDefaults is attached to every job submitted from the console; max attempts come from the form
type RetryPolicyDefaults struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type EnqueueFormDefaults struct {
	IdPrefix   string
	Queue      string
	Payload    string
	TimeoutMs  int64
	MaxRetries int
}

type ServerConfig struct {
	Timeouts ServerTimeouts
}

type ServerTimeouts struct {
	Handle     time.Duration
	Write      time.Duration
	Read       time.Duration
	ReadHeader time.Duration
	Idle       time.Duration
}

func NewAppConfig() *AppConfigs {
	pollIntervalMs := 3 * 1000

	return &AppConfigs{
		BackendUrl:               "http://localhost:8080",
		ListenAddr:               "localhost:8090",
		PollIntervalMs:           int64(pollIntervalMs),     // 3 seconds
		FetchTimeoutMs:           int64(pollIntervalMs),     // a hung fetch never outlives one tick
		EnqueueTimeoutMs:         10 * 1000,                 // 10 seconds
		StaleAfterMs:             int64(5 * pollIntervalMs), // 5 missed cycles
		BacklogMetricsIntervalMs: 15 * 1000,                 // 15 seconds
		MetricsEnabled:           true,
		CsrfEnabled:              true,
		DefaultRetryPolicy: RetryPolicyDefaults{
			InitialInterval: 1 * time.Second,
			MaxInterval:     10 * time.Second,
		},
		EnqueueFormDefaults: EnqueueFormDefaults{
			IdPrefix:   "job-ui-",
			Queue:      "default",
			Payload:    "{\n  \"message\": \"Hello Wida from UI!\"\n}",
			TimeoutMs:  30 * 1000,
			MaxRetries: 3,
		},
		ServerConfig: ServerConfig{
			Timeouts: ServerTimeouts{
				Handle:     15 * time.Second, // enqueue timeout + buffer
				Write:      20 * time.Second, // handle + write buffer
				Read:       20 * time.Second, // same as write
				ReadHeader: 5 * time.Second,  // headers shouldn't take long
				Idle:       2 * time.Minute,  // keep connections of auto-refreshing pages alive
			},
		},
	}
}

// LoadDotEnv exports the variables of the given .env file into the process environment.
// Variables that are already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnv overrides the defaults with the values of the WIDA_CONSOLE_* environment variables
func (ac *AppConfigs) ApplyEnv() {
	if backendUrl := os.Getenv(BackendUrlEnv); backendUrl != "" {
		ac.BackendUrl = strings.TrimRight(backendUrl, "/")
	}
	if listenAddr := os.Getenv(ListenAddrEnv); listenAddr != "" {
		ac.ListenAddr = listenAddr
	}
	if enabled, ok := boolEnv(MetricsEnv); ok {
		ac.MetricsEnabled = enabled
	}
	if enabled, ok := boolEnv(CsrfEnv); ok {
		ac.CsrfEnabled = enabled
	}
}

func (ac *AppConfigs) PollInterval() time.Duration {
	return time.Duration(ac.PollIntervalMs) * time.Millisecond
}

func (ac *AppConfigs) FetchTimeout() time.Duration {
	return time.Duration(ac.FetchTimeoutMs) * time.Millisecond
}

func (ac *AppConfigs) EnqueueTimeout() time.Duration {
	return time.Duration(ac.EnqueueTimeoutMs) * time.Millisecond
}

func (ac *AppConfigs) StaleAfter() time.Duration {
	return time.Duration(ac.StaleAfterMs) * time.Millisecond
}

func boolEnv(name string) (bool, bool) {
	value := os.Getenv(name)
	if value == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("env", name).Str("value", value).Msg("ignoring invalid boolean environment variable")
		return false, false
	}
	return parsed, true
}
