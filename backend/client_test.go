package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/n0rdy/widaconsole/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

func TestClient_FetchJobs(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.JobsPath: jsonBody(`{"jobs":[{"id":"j1","queue":"emails","payload":{"to":"a@b.c"},"status":"pending",
			"max_retries":3,"attempts":[{"started_at":"2024-01-01T00:00:00Z","status":"failed","error":"boom"}],
			"dependencies":["j0"],"cron_expr":"*/5 * * * *",
			"retry_policy":{"initial_interval":1000000000,"max_interval":10000000000,"max_attempts":3},
			"timeout":30000000000}]}`),
	})

	jobs, err := client.FetchJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "j1", job.Id)
	assert.Equal(t, "emails", job.Queue)
	assert.Equal(t, common.PendingStatus, job.Status)
	assert.JSONEq(t, `{"to":"a@b.c"}`, string(job.Payload))
	assert.Equal(t, []string{"j0"}, job.Dependencies)
	assert.Equal(t, "*/5 * * * *", job.CronExpr)
	assert.Equal(t, 30*time.Second, job.Timeout)
	assert.Equal(t, time.Second, job.RetryPolicy.InitialInterval)
	require.Len(t, job.Attempts, 1)
	assert.Equal(t, "boom", job.Attempts[0].Error)
	assert.True(t, job.Attempts[0].FinishedAt.IsZero())
}

func TestClient_FetchJobs_EmptyCollection(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.JobsPath: jsonBody(`{"jobs":[]}`),
	})

	jobs, err := client.FetchJobs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestClient_FetchJobs_MissingCollection(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.JobsPath: jsonBody(`{"jobs":null}`),
	})

	_, err := client.FetchJobs(context.Background())
	assert.ErrorIs(t, err, common.ErrFetchMissingField)
}

func TestClient_FetchWorkers(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.WorkersPath: jsonBody(`{"workers":[{"id":"w1","status":"running","current_job_id":"j1","jobs_completed":42,"last_heartbeat":"2024-01-01T00:00:00Z"}]}`),
	})

	workers, err := client.FetchWorkers(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "w1", workers[0].Id)
	assert.Equal(t, "j1", workers[0].CurrentJobId)
	assert.Equal(t, 42, workers[0].JobsCompleted)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), workers[0].LastHeartbeat.UTC())
}

func TestClient_FetchDLQ(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.DlqPath: jsonBody(`{"dlq":[{"id":"d1","queue":"q1","payload":{},"reason":"max attempts","attempts":[],"failed_at":"2024-01-01T00:00:00Z"}]}`),
	})

	dlq, err := client.FetchDLQ(context.Background())
	require.NoError(t, err)
	require.Len(t, dlq, 1)
	assert.Equal(t, "max attempts", dlq[0].Reason)
}

func TestClient_FetchSchedulerStatus(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.SchedulerPath: jsonBody(`{"is_leader":true}`),
	})

	isLeader, err := client.FetchSchedulerStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, isLeader)
}

func TestClient_FetchSchedulerStatus_MissingFlag(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.SchedulerPath: jsonBody(`{}`),
	})

	_, err := client.FetchSchedulerStatus(context.Background())
	assert.ErrorIs(t, err, common.ErrFetchMissingField)
}

func TestClient_Fetch_BadStatus(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.WorkersPath: func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		},
	})

	_, err := client.FetchWorkers(context.Background())
	assert.ErrorIs(t, err, common.ErrFetchBadStatus)
}

func TestClient_Fetch_DecodeError(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.DlqPath: jsonBody(`{"dlq":[{`),
	})

	_, err := client.FetchDLQ(context.Background())
	assert.ErrorIs(t, err, common.ErrFetchDecode)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, nil)

	_, err := client.FetchJobs(context.Background())
	assert.ErrorIs(t, err, common.ErrFetchUnreachable)
}

func TestClient_EnqueueJob(t *testing.T) {
	var received map[string]interface{}
	var contentType string
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.EnqueuePath: func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, http.MethodPost, req.Method)
			contentType = req.Header.Get("Content-Type")
			json.NewDecoder(req.Body).Decode(&received)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":"job-1"}`)
		},
	})

	err := client.EnqueueJob(context.Background(), &common.EnqueueRequest{
		Id:         "job-1",
		Queue:      "default",
		Payload:    json.RawMessage(`{"a":1}`),
		Status:     common.PendingStatus,
		MaxRetries: 3,
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "job-1", received["id"])
	assert.Equal(t, "pending", received["status"])
	assert.Equal(t, float64(5000000000), received["timeout"])
	assert.NotContains(t, received, "cron_expr")
	assert.NotContains(t, received, "dependencies")
}

func TestClient_EnqueueJob_Rejected(t *testing.T) {
	client := newTestBackend(t, map[string]http.HandlerFunc{
		common.EnqueuePath: func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		},
	})

	err := client.EnqueueJob(context.Background(), &common.EnqueueRequest{Id: "job-1", Queue: "default", Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, common.ErrEnqueueRejected)
}

func TestClient_EnqueueJob_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, nil)

	err := client.EnqueueJob(context.Background(), &common.EnqueueRequest{Id: "job-1", Queue: "default", Payload: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, common.ErrEnqueueUnreachable)
}
