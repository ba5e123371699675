package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/n0rdy/widaconsole/common"

	"github.com/rs/zerolog/log"
)

// Client reads the externalized state of the job platform and submits new jobs to it.
// Requests carry no pagination or filter parameters.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

type jobsResponse struct {
	Jobs *[]common.Job `json:"jobs"`
}

type workersResponse struct {
	Workers *[]common.WorkerStats `json:"workers"`
}

type dlqResponse struct {
	Dlq *[]common.DLQJob `json:"dlq"`
}

type schedulerResponse struct {
	IsLeader *bool `json:"is_leader"`
}

func NewClient(baseUrl string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchJobs(ctx context.Context) ([]common.Job, error) {
	var resp jobsResponse
	if err := c.getJson(ctx, common.JobsPath, &resp); err != nil {
		return nil, err
	}
	if resp.Jobs == nil {
		log.Warn().Str("resource", common.JobsResource).Msg("response has no jobs collection")
		return nil, common.ErrFetchMissingField
	}
	return *resp.Jobs, nil
}

func (c *Client) FetchWorkers(ctx context.Context) ([]common.WorkerStats, error) {
	var resp workersResponse
	if err := c.getJson(ctx, common.WorkersPath, &resp); err != nil {
		return nil, err
	}
	if resp.Workers == nil {
		log.Warn().Str("resource", common.WorkersResource).Msg("response has no workers collection")
		return nil, common.ErrFetchMissingField
	}
	return *resp.Workers, nil
}

func (c *Client) FetchDLQ(ctx context.Context) ([]common.DLQJob, error) {
	var resp dlqResponse
	if err := c.getJson(ctx, common.DlqPath, &resp); err != nil {
		return nil, err
	}
	if resp.Dlq == nil {
		log.Warn().Str("resource", common.DlqResource).Msg("response has no dlq collection")
		return nil, common.ErrFetchMissingField
	}
	return *resp.Dlq, nil
}

func (c *Client) FetchSchedulerStatus(ctx context.Context) (bool, error) {
	var resp schedulerResponse
	if err := c.getJson(ctx, common.SchedulerPath, &resp); err != nil {
		return false, err
	}
	if resp.IsLeader == nil {
		log.Warn().Str("resource", common.SchedulerResource).Msg("response has no is_leader flag")
		return false, common.ErrFetchMissingField
	}
	return *resp.IsLeader, nil
}

// EnqueueJob submits the job. Any 2xx status is a success, the response body is not consumed.
func (c *Client) EnqueueJob(ctx context.Context, job *common.EnqueueRequest) error {
	body, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.Id).Msg("failed to marshal enqueue request")
		return common.ErrInternal
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+common.EnqueuePath, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to build enqueue request")
		return common.ErrInternal
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.Id).Msg("failed to reach backend for enqueue")
		return common.ErrEnqueueUnreachable
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("job_id", job.Id).Msg("backend rejected enqueue request")
		return common.ErrEnqueueRejected
	}
	return nil
}

func (c *Client) getJson(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to build fetch request")
		return common.ErrInternal
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to reach backend")
		return common.ErrFetchUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("unexpected fetch response status")
		return common.ErrFetchBadStatus
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to decode fetch response")
		return common.ErrFetchDecode
	}
	return nil
}
