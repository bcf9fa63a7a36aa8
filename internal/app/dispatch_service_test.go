package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/mocks"
)

var dispatchDate = time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)

type dispatchMocks struct {
	store    *mocks.MockSubscriberStore
	gateway  *mocks.MockNotificationGateway
	renderer *mocks.MockMessageRenderer
}

func newDispatchMocks(t *testing.T) dispatchMocks {
	t.Helper()

	return dispatchMocks{
		store:    mocks.NewMockSubscriberStore(t),
		gateway:  mocks.NewMockNotificationGateway(t),
		renderer: mocks.NewMockMessageRenderer(t),
	}
}

func (m dispatchMocks) service(concurrency int) *DispatchService {
	return NewDispatchService(DispatchServiceConfig{
		Store:       m.store,
		Gateway:     m.gateway,
		Renderer:    m.renderer,
		AppURL:      "https://stoic.example.com/",
		Concurrency: concurrency,
		Logger:      discardLogger(),
	})
}

// echoRenderer renders a job into a message addressed to the same recipient.
func echoRenderer(job domain.DispatchJob) (domain.EmailMessage, error) {
	return domain.EmailMessage{
		To:       job.To,
		Subject:  "Daily Stoic — " + job.Author,
		TextBody: job.Quote + "\n" + job.UnsubscribeURL,
	}, nil
}

func subscribers(emails ...string) []domain.Subscriber {
	subs := make([]domain.Subscriber, len(emails))
	for i, e := range emails {
		subs[i] = domain.Subscriber{Email: e, Subscribed: true, UnsubscribeToken: "tok-" + e}
	}

	return subs
}

func TestNewDispatchService_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewDispatchService(DispatchServiceConfig{Store: mocks.NewMockSubscriberStore(t)})
	})
}

func TestDispatchService_RunDailyDispatch_AllSucceed(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(subscribers("a@x.io", "b@x.io"), nil)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msg domain.EmailMessage) (string, error) {
			return "id-" + msg.To, nil
		})

	report, err := m.service(2).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.Equal(t, domain.DispatchAggregated, report.State)
	assert.True(t, report.Sent)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Zero(t, report.Failed())
	assert.Equal(t, []string{"id-a@x.io", "id-b@x.io"}, report.MessageIDs)
	assert.Equal(t, "Saturday, February 1, 2025", report.Date)

	want := domain.DefaultCatalog().At(31)
	assert.Equal(t, want.Text, report.Quote)
	assert.Equal(t, want.Author, report.Author)
}

func TestDispatchService_RunDailyDispatch_BuildsJobs(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return([]domain.Subscriber{
		{Email: "a@x.io", Subscribed: true, UnsubscribeToken: "t+1/2"},
	}, nil)

	var got domain.DispatchJob

	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(func(job domain.DispatchJob) (domain.EmailMessage, error) {
		got = job
		return echoRenderer(job)
	})
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).Return("id", nil)

	_, err := m.service(1).RunDailyDispatch(context.Background(), dispatchDate)
	require.NoError(t, err)

	quote := domain.DefaultCatalog().ForDate(dispatchDate)
	assert.Equal(t, domain.DispatchJob{
		To:             "a@x.io",
		Quote:          quote.Text,
		Author:         quote.Author,
		DateLabel:      "Saturday, February 1, 2025",
		UnsubscribeURL: "https://stoic.example.com/unsubscribe?token=t%2B1%2F2",
	}, got)
}

func TestDispatchService_RunDailyDispatch_PartialFailure(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(subscribers("a@x.io", "b@x.io", "c@x.io"), nil)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msg domain.EmailMessage) (string, error) {
			if msg.To == "b@x.io" {
				return "", domain.NewUnavailableError("resend", "status 502")
			}

			return "id-" + msg.To, nil
		})

	report, err := m.service(3).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.True(t, report.Sent)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b@x.io", report.Failures[0].Email)
	assert.Contains(t, report.Failures[0].Error, "status 502")
	assert.Equal(t, []string{"id-a@x.io", "id-c@x.io"}, report.MessageIDs)
}

func TestDispatchService_RunDailyDispatch_AllFail(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(subscribers("a@x.io", "b@x.io"), nil)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	report, err := m.service(2).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.False(t, report.Sent)
	assert.Equal(t, domain.DispatchAggregated, report.State)
	assert.Equal(t, 2, report.Failed())
	assert.Empty(t, report.MessageIDs)
}

func TestDispatchService_RunDailyDispatch_InvalidJobIsIsolated(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return([]domain.Subscriber{
		{Email: "  ", Subscribed: true, UnsubscribeToken: "t0"},
		{Email: "ok@x.io", Subscribed: true, UnsubscribeToken: "t1"},
	}, nil)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer).Once()
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).Return("id-ok", nil).Once()

	report, err := m.service(2).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Error, "email address is required")
}

func TestDispatchService_RunDailyDispatch_NoSubscribers(t *testing.T) {
	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(nil, nil)

	report, err := m.service(0).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.False(t, report.Sent)
	assert.Equal(t, domain.ReasonNoSubscribers, report.Reason)
	assert.Zero(t, report.Total)
	assert.Equal(t, domain.DispatchAggregated, report.State)
}

func TestDispatchService_RunDailyDispatch_FetchFailure(t *testing.T) {
	m := newDispatchMocks(t)
	storeErr := domain.NewUnavailableError("subscriber-store", "timeout")
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(nil, storeErr)

	report, err := m.service(1).RunDailyDispatch(context.Background(), dispatchDate)

	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.DispatchFailed, report.State)
	assert.False(t, report.Sent)
	assert.Zero(t, report.Total)
}

func TestDispatchService_RunDailyDispatch_RespectsConcurrency(t *testing.T) {
	const limit = 4

	emails := make([]string, 25)
	for i := range emails {
		emails[i] = fmt.Sprintf("user%d@x.io", i)
	}

	var inFlight, peak atomic.Int32

	m := newDispatchMocks(t)
	m.store.EXPECT().ListSubscribed(mock.Anything).Return(subscribers(emails...), nil)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, domain.EmailMessage) (string, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}

			time.Sleep(2 * time.Millisecond)

			return "id", nil
		})

	report, err := m.service(limit).RunDailyDispatch(context.Background(), dispatchDate)

	require.NoError(t, err)
	assert.Equal(t, 25, report.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestDispatchService_SendTestEmail(t *testing.T) {
	m := newDispatchMocks(t)
	m.renderer.EXPECT().Render(mock.MatchedBy(func(job domain.DispatchJob) bool {
		return job.To == "me@x.io" && job.UnsubscribeURL == ""
	})).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).Return("msg-1", nil)

	id, err := m.service(1).SendTestEmail(context.Background(), " Me@X.io ", dispatchDate)

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestDispatchService_SendTestEmail_InvalidAddress(t *testing.T) {
	m := newDispatchMocks(t)

	_, err := m.service(1).SendTestEmail(context.Background(), "nobody", dispatchDate)

	assert.True(t, domain.IsValidation(err))
}

func TestDispatchService_SendTestEmail_ConfigurationError(t *testing.T) {
	m := newDispatchMocks(t)
	m.renderer.EXPECT().Render(mock.Anything).RunAndReturn(echoRenderer)
	m.gateway.EXPECT().Send(mock.Anything, mock.Anything).
		Return("", domain.NewConfigurationError("email.api_key", "not set"))

	_, err := m.service(1).SendTestEmail(context.Background(), "me@x.io", dispatchDate)

	assert.True(t, domain.IsConfiguration(err))
}

func TestNewSendLimiter(t *testing.T) {
	assert.Nil(t, NewSendLimiter(0, 5))

	l := NewSendLimiter(2, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}

func TestDispatchService_UnsubscribeURL(t *testing.T) {
	tests := []struct {
		name   string
		appURL string
		token  string
		want   string
	}{
		{"trailing slash trimmed", "https://a.io/", "abc", "https://a.io/unsubscribe?token=abc"},
		{"token escaped", "https://a.io", "a b&c", "https://a.io/unsubscribe?token=a+b%26c"},
		{"no app url", "", "abc", ""},
		{"no token", "https://a.io", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &DispatchService{appURL: strings.TrimRight(tt.appURL, "/")}
			assert.Equal(t, tt.want, svc.unsubscribeURL(tt.token))
		})
	}
}
