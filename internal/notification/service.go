// Package notification keeps notification counts fresh by polling the
// backend, and publishes changes for the UI to react to.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/pubsub"
)

const DefaultPollInterval = 30 * time.Second

type Service struct {
	client *api.Client
	logger *logging.Logger
	broker *pubsub.Broker[api.NotificationStats]

	interval time.Duration

	mu      sync.Mutex
	stats   api.NotificationStats
	enabled bool
}

type ServiceOptions struct {
	Client *api.Client
	Logger *logging.Logger
	// PollInterval defaults to DefaultPollInterval when zero.
	PollInterval time.Duration
}

func NewService(opts ServiceOptions) *Service {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{
		client:   opts.Client,
		logger:   opts.Logger,
		broker:   pubsub.NewBroker[api.NotificationStats](),
		interval: interval,
	}
}

// StartPolling launches a background goroutine that refreshes notification
// stats at a fixed cadence until ctx is cancelled. It returns immediately.
// Polls are skipped while no session is active; call Enable after login and
// Disable after logout.
func (s *Service) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			if s.isEnabled() {
				s.refresh(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Enable turns polling on and triggers an immediate refresh.
func (s *Service) Enable(ctx context.Context) {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()

	s.refresh(ctx)
}

// Disable turns polling off and zeroes the published stats.
func (s *Service) Disable() {
	s.mu.Lock()
	s.enabled = false
	s.stats = api.NotificationStats{}
	s.mu.Unlock()

	s.broker.Publish(pubsub.UpdatedEvent, api.NotificationStats{})
}

func (s *Service) isEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Stats returns the most recently fetched stats.
func (s *Service) Stats() api.NotificationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Watch subscribes to stats changes until ctx is cancelled.
func (s *Service) Watch(ctx context.Context) <-chan pubsub.Event[api.NotificationStats] {
	return s.broker.Subscribe(ctx)
}

func (s *Service) refresh(ctx context.Context) {
	stats, err := s.client.NotificationStats(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			// Session expired server-side; stop polling until re-enabled.
			s.Disable()
			return
		}
		s.logger.Warn("notification poll failed", "error", err)
		return
	}

	s.mu.Lock()
	changed := stats != s.stats
	s.stats = stats
	s.mu.Unlock()

	if changed {
		s.broker.Publish(pubsub.UpdatedEvent, stats)
	}
}

// List fetches the user's notifications, most recent first.
func (s *Service) List(ctx context.Context) ([]api.Notification, error) {
	return s.client.Notifications(ctx)
}

// MarkAsRead marks one notification read and refreshes stats.
func (s *Service) MarkAsRead(ctx context.Context, id int) error {
	if err := s.client.MarkAsRead(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// ReadAll marks every notification read and refreshes stats.
func (s *Service) ReadAll(ctx context.Context) error {
	if err := s.client.ReadAll(ctx); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}
