package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/pubsub"
)

func newService(t *testing.T, srv *apitest.Server) *Service {
	t.Helper()

	client, err := api.NewClient(srv.URL, logging.Discard())
	require.NoError(t, err)
	_, err = client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	return NewService(ServiceOptions{
		Client: client,
		Logger: logging.Discard(),
	})
}

func TestService_EnablePublishesStats(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Stats = api.NotificationStats{Total: 5, Unread: 3}
	svc := newService(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Watch(ctx)

	svc.Enable(ctx)

	event := <-events
	assert.Equal(t, pubsub.UpdatedEvent, event.Type)
	assert.Equal(t, 3, event.Payload.Unread)
	assert.Equal(t, event.Payload, svc.Stats())
}

func TestService_RefreshOnlyPublishesChanges(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Stats = api.NotificationStats{Total: 1, Unread: 1}
	svc := newService(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Watch(ctx)

	svc.Enable(ctx)
	<-events

	// Same stats; no event expected.
	svc.refresh(ctx)
	select {
	case event := <-events:
		t.Fatalf("unexpected event: %v", event)
	case <-time.After(50 * time.Millisecond):
	}

	srv.Stats = api.NotificationStats{Total: 2, Unread: 2}
	svc.refresh(ctx)
	event := <-events
	assert.Equal(t, 2, event.Payload.Unread)
}

func TestService_Disable(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Stats = api.NotificationStats{Total: 5, Unread: 3}
	svc := newService(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Enable(ctx)
	svc.Disable()

	assert.Equal(t, api.NotificationStats{}, svc.Stats())
	assert.False(t, svc.isEnabled())
}

func TestService_MarkAsReadRefreshes(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Notifications = []api.Notification{{ID: 1}, {ID: 2}}
	srv.Stats = api.NotificationStats{Total: 2, Unread: 2}
	svc := newService(t, srv)

	ctx := context.Background()
	svc.Enable(ctx)

	srv.Stats = api.NotificationStats{Total: 2, Unread: 1}
	require.NoError(t, svc.MarkAsRead(ctx, 1))

	assert.Equal(t, []int{1}, srv.MarkedRead)
	assert.Equal(t, 1, svc.Stats().Unread)
}

func TestService_PollingStopsOnExpiredSession(t *testing.T) {
	srv := apitest.NewServer(t)
	client, err := api.NewClient(srv.URL, logging.Discard())
	require.NoError(t, err)
	svc := NewService(ServiceOptions{Client: client, Logger: logging.Discard()})

	// No login; the backend rejects the stats fetch with a 401 and the
	// service disables itself.
	ctx := context.Background()
	svc.Enable(ctx)

	assert.False(t, svc.isEnabled())
}
