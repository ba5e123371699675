package services

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/configs"
	"github.com/n0rdy/widaconsole/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EnqueueClient submits jobs to the backend
type EnqueueClient interface {
	EnqueueJob(ctx context.Context, job *common.EnqueueRequest) error
}

// Refresher triggers a poll cycle outside the regular cadence
type Refresher interface {
	Refresh()
}

// EnqueueForm is the partial job specification as typed into the enqueue form
type EnqueueForm struct {
	Id           string `json:"id"`
	Queue        string `json:"queue"`
	Payload      string `json:"payload"`
	CronExpr     string `json:"cron_expr"`
	TimeoutMs    int64  `json:"timeout_ms"`
	MaxRetries   int    `json:"max_retries"`
	Dependencies string `json:"dependencies"` // comma-separated job IDs
}

// larger timeouts overflow time.Duration
const maxTimeoutMs = math.MaxInt64 / int64(time.Millisecond)

type EnqueueService struct {
	client         EnqueueClient
	refresher      Refresher
	metricsService metrics.Service
	appConfigs     *configs.AppConfigs
}

func NewEnqueueService(client EnqueueClient, refresher Refresher, metricsService metrics.Service, appConfigs *configs.AppConfigs) *EnqueueService {
	return &EnqueueService{
		client:         client,
		refresher:      refresher,
		metricsService: metricsService,
		appConfigs:     appConfigs,
	}
}

// NewEnqueueForm returns a form pre-filled with the defaults and a fresh job ID
func (es *EnqueueService) NewEnqueueForm() EnqueueForm {
	defaults := es.appConfigs.EnqueueFormDefaults
	return EnqueueForm{
		Id:         defaults.IdPrefix + newJobIdSuffix(),
		Queue:      defaults.Queue,
		Payload:    defaults.Payload,
		TimeoutMs:  defaults.TimeoutMs,
		MaxRetries: defaults.MaxRetries,
	}
}

// Submit validates the form, sends it to the backend and, once accepted, requests an immediate re-poll.
// Validation errors are returned before any network call is made.
func (es *EnqueueService) Submit(ctx context.Context, form EnqueueForm) (*common.EnqueueRequest, error) {
	req, err := es.BuildRequest(form)
	if err != nil {
		es.metricsService.IncEnqueueRequestsTotal(metrics.InvalidEnqueueResult)
		return nil, err
	}

	if timeout := es.appConfigs.EnqueueTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = es.client.EnqueueJob(ctx, req)
	if err != nil {
		es.metricsService.IncEnqueueRequestsTotal(metrics.FailedEnqueueResult)
		return nil, err
	}

	log.Info().Str("job_id", req.Id).Str("queue", req.Queue).Msg("job enqueued")
	es.metricsService.IncEnqueueRequestsTotal(metrics.AcceptedEnqueueResult)
	if es.refresher != nil {
		es.refresher.Refresh()
	}
	return req, nil
}

// BuildRequest turns the form into the request sent to the backend
func (es *EnqueueService) BuildRequest(form EnqueueForm) (*common.EnqueueRequest, error) {
	id := strings.TrimSpace(form.Id)
	if id == "" {
		return nil, common.ErrIdMissing
	}
	queue := strings.TrimSpace(form.Queue)
	if queue == "" {
		return nil, common.ErrQueueMissing
	}

	var payload bytes.Buffer
	if err := json.Compact(&payload, []byte(form.Payload)); err != nil {
		log.Debug().Err(err).Str("job_id", id).Msg("payload is not valid JSON")
		return nil, common.ErrPayloadInvalidJson
	}

	if form.TimeoutMs < 0 {
		return nil, common.ErrTimeoutNegative
	}
	if form.TimeoutMs > maxTimeoutMs {
		return nil, common.ErrTimeoutTooLarge
	}
	if form.MaxRetries < 0 {
		return nil, common.ErrMaxRetriesNegative
	}

	retryPolicy := es.appConfigs.DefaultRetryPolicy
	return &common.EnqueueRequest{
		Id:         id,
		Queue:      queue,
		Payload:    json.RawMessage(payload.Bytes()),
		Status:     common.PendingStatus,
		MaxRetries: form.MaxRetries,
		Timeout:    time.Duration(form.TimeoutMs) * time.Millisecond,
		RetryPolicy: common.RetryPolicy{
			InitialInterval: retryPolicy.InitialInterval,
			MaxInterval:     retryPolicy.MaxInterval,
			MaxAttempts:     form.MaxRetries,
		},
		CronExpr:     strings.TrimSpace(form.CronExpr),
		Dependencies: ParseDependencies(form.Dependencies),
	}, nil
}

// ParseDependencies splits a comma-separated list of job IDs. Blank entries are dropped, nil is returned for an empty list.
func ParseDependencies(raw string) []string {
	var deps []string
	for _, dep := range strings.Split(raw, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// FormatPayload pretty-prints valid JSON and returns anything else untouched
func FormatPayload(raw string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(strings.TrimSpace(raw)), "", "  "); err != nil {
		return raw
	}
	return out.String()
}

func newJobIdSuffix() string {
	id, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate job ID, falling back to a random one")
		return uuid.New().String()
	}
	return id.String()
}
