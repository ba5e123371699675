package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/n0rdy/widaconsole/common"
	"github.com/n0rdy/widaconsole/configs"
	"github.com/n0rdy/widaconsole/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnqueueService() (*EnqueueService, *MockEnqueueClient, *MockRefresher) {
	client := &MockEnqueueClient{}
	refresher := &MockRefresher{}
	srv := NewEnqueueService(client, refresher, metrics.NewMetricsService(false, nil), configs.NewAppConfig())
	return srv, client, refresher
}

func validForm() EnqueueForm {
	return EnqueueForm{
		Id:         "job-1",
		Queue:      "default",
		Payload:    `{"a":1}`,
		TimeoutMs:  5000,
		MaxRetries: 3,
	}
}

func TestEnqueueService_Submit(t *testing.T) {
	srv, client, refresher := newTestEnqueueService()

	req, err := srv.Submit(context.Background(), validForm())
	require.NoError(t, err)

	require.Len(t, client.Received(), 1)
	sent := client.Received()[0]
	assert.Equal(t, req, sent)
	assert.Equal(t, "job-1", sent.Id)
	assert.Equal(t, "default", sent.Queue)
	assert.Equal(t, common.PendingStatus, sent.Status)
	assert.Equal(t, `{"a":1}`, string(sent.Payload))
	assert.Equal(t, time.Duration(5000000000), sent.Timeout)
	assert.Equal(t, int64(5000000000), int64(sent.Timeout))
	assert.Equal(t, 3, sent.MaxRetries)
	assert.Equal(t, common.RetryPolicy{InitialInterval: time.Second, MaxInterval: 10 * time.Second, MaxAttempts: 3}, sent.RetryPolicy)
	assert.Empty(t, sent.CronExpr)
	assert.Nil(t, sent.Dependencies)

	assert.Equal(t, 1, refresher.Calls())
}

func TestEnqueueService_Submit_InvalidPayloadIsNeverSent(t *testing.T) {
	srv, client, refresher := newTestEnqueueService()
	form := validForm()
	form.Payload = `{invalid`

	_, err := srv.Submit(context.Background(), form)

	assert.ErrorIs(t, err, common.ErrPayloadInvalidJson)
	assert.True(t, common.IsValidationError(err))
	assert.Empty(t, client.Received())
	assert.Zero(t, refresher.Calls())
}

func TestEnqueueService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *EnqueueForm)
		err    error
	}{
		{name: "missing id", modify: func(f *EnqueueForm) { f.Id = "  " }, err: common.ErrIdMissing},
		{name: "missing queue", modify: func(f *EnqueueForm) { f.Queue = "" }, err: common.ErrQueueMissing},
		{name: "empty payload", modify: func(f *EnqueueForm) { f.Payload = "" }, err: common.ErrPayloadInvalidJson},
		{name: "negative timeout", modify: func(f *EnqueueForm) { f.TimeoutMs = -1 }, err: common.ErrTimeoutNegative},
		{name: "timeout overflowing duration", modify: func(f *EnqueueForm) { f.TimeoutMs = 10_000_000_000_000 }, err: common.ErrTimeoutTooLarge},
		{name: "negative max retries", modify: func(f *EnqueueForm) { f.MaxRetries = -2 }, err: common.ErrMaxRetriesNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, client, _ := newTestEnqueueService()
			form := validForm()
			tt.modify(&form)

			_, err := srv.Submit(context.Background(), form)

			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, client.Received())
		})
	}
}

func TestEnqueueService_BuildRequest_MaxTimeout(t *testing.T) {
	srv, _, _ := newTestEnqueueService()
	form := validForm()
	form.TimeoutMs = maxTimeoutMs

	req, err := srv.BuildRequest(form)
	require.NoError(t, err)
	assert.Positive(t, int64(req.Timeout))

	form.TimeoutMs = maxTimeoutMs + 1
	_, err = srv.BuildRequest(form)
	assert.ErrorIs(t, err, common.ErrTimeoutTooLarge)
	assert.True(t, common.IsValidationError(err))
}

func TestEnqueueService_Submit_BackendFailure(t *testing.T) {
	srv, client, refresher := newTestEnqueueService()
	client.err = common.ErrEnqueueRejected

	_, err := srv.Submit(context.Background(), validForm())

	assert.ErrorIs(t, err, common.ErrEnqueueRejected)
	assert.False(t, common.IsValidationError(err))
	assert.Equal(t, "Failed to enqueue job", common.UserMessage(err))
	assert.Len(t, client.Received(), 1)
	assert.Zero(t, refresher.Calls())
}

func TestEnqueueService_BuildRequest_OptionalFields(t *testing.T) {
	srv, _, _ := newTestEnqueueService()
	form := validForm()
	form.Payload = "{\n  \"message\": \"hi\"\n}"
	form.CronExpr = " */5 * * * * "
	form.Dependencies = "a, b ,,c "

	req, err := srv.BuildRequest(form)
	require.NoError(t, err)

	assert.Equal(t, `{"message":"hi"}`, string(req.Payload))
	assert.Equal(t, "*/5 * * * *", req.CronExpr)
	assert.Equal(t, []string{"a", "b", "c"}, req.Dependencies)
}

func TestParseDependencies(t *testing.T) {
	assert.Nil(t, ParseDependencies(""))
	assert.Nil(t, ParseDependencies(" , ,"))
	assert.Equal(t, []string{"job-a"}, ParseDependencies("job-a"))
	assert.Equal(t, []string{"a", "b"}, ParseDependencies(" a ,b"))
}

func TestFormatPayload(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", FormatPayload(`{"a":1}`))
	assert.Equal(t, `{invalid`, FormatPayload(`{invalid`))
}

func TestEnqueueService_NewEnqueueForm(t *testing.T) {
	srv, _, _ := newTestEnqueueService()

	form := srv.NewEnqueueForm()
	other := srv.NewEnqueueForm()

	assert.True(t, strings.HasPrefix(form.Id, "job-ui-"))
	assert.NotEqual(t, form.Id, other.Id)
	assert.Equal(t, "default", form.Queue)
	assert.Equal(t, int64(30000), form.TimeoutMs)
	assert.Equal(t, 3, form.MaxRetries)
	assert.Contains(t, form.Payload, "Hello Wida from UI!")
}
