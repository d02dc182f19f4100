// Package realtime keeps the data cache eventually consistent with
// out-of-band writes by subscribing to the store's per-table change
// notifications (postgres LISTEN/NOTIFY, published by statement triggers).
package realtime

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Notification channels, one per logical table.
const (
	ChannelFonts        = "fonts_changed"
	ChannelProjects     = "projects_changed"
	ChannelAssociations = "font_projects_changed"
)

const (
	minReconnectInterval = 5 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Refresher is the cache surface the listener drives. Every event triggers an
// idempotent full refetch, so redundant or reordered notifications are wasted
// work but never incorrect.
type Refresher interface {
	RefreshFonts(ctx context.Context) error
	RefreshProjects(ctx context.Context) error
}

type Listener struct {
	pq     *pq.Listener
	cache  Refresher
	logger zerolog.Logger
}

// New builds a listener over the given postgres DSN. Nothing connects until
// Start is called.
func New(dsn string, cache Refresher) *Listener {
	logger := log.With().Str("component", "changeListener").Logger()

	pqListener := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn().Err(err).Int("event", int(event)).Msg("listener connection event")
			}
		})

	return &Listener{pq: pqListener, cache: cache, logger: logger}
}

// Start subscribes to the three table channels and runs the dispatch loop in
// a goroutine. The subscription is scoped to ctx: cancellation tears the
// connection down regardless of why the owner is going away.
func (l *Listener) Start(ctx context.Context) error {
	for _, channel := range []string{ChannelFonts, ChannelProjects, ChannelAssociations} {
		if err := l.pq.Listen(channel); err != nil {
			_ = l.pq.Close()
			return err
		}
	}

	go l.run(ctx)
	return nil
}

func (l *Listener) run(ctx context.Context) {
	defer func() {
		if err := l.pq.Close(); err != nil {
			l.logger.Warn().Err(err).Msg("closing listener failed")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("change listener shutting down")
			return
		case notification, ok := <-l.pq.Notify:
			if !ok {
				l.logger.Info().Msg("notification channel closed")
				return
			}
			// A nil notification signals a reconnect; the connection may have
			// missed events, so refresh everything.
			if notification == nil {
				l.dispatch(ctx, ChannelAssociations)
				continue
			}
			l.dispatch(ctx, notification.Channel)
		case <-time.After(pingInterval):
			go func() {
				if err := l.pq.Ping(); err != nil {
					l.logger.Warn().Err(err).Msg("listener ping failed")
				}
			}()
		}
	}
}

// dispatch maps a channel to its refresh: font events refresh fonts, project
// events refresh projects, association events refresh both since counts on
// both sides change. Refresh errors are already logged and flagged by the
// cache; the listener just keeps going.
func (l *Listener) dispatch(ctx context.Context, channel string) {
	switch channel {
	case ChannelFonts:
		_ = l.cache.RefreshFonts(ctx)
	case ChannelProjects:
		_ = l.cache.RefreshProjects(ctx)
	case ChannelAssociations:
		_ = l.cache.RefreshFonts(ctx)
		_ = l.cache.RefreshProjects(ctx)
	default:
		l.logger.Warn().Str("channel", channel).Msg("notification on unknown channel")
	}
}
