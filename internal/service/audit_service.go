package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/stock-service/internal/config"
	"github.com/spec-kit/stock-service/internal/events"
	"github.com/spec-kit/stock-service/internal/persistence"
)

// AuditService records authentication activity. Events are logged and a
// last-seen marker per account is kept in Redis, best effort: a Redis outage
// never fails the originating request.
type AuditService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
	ttl        time.Duration
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	ttl := time.Duration(cfg.LastSeenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &AuditService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
		ttl:        ttl,
	}
}

// RegisterHandlers subscribes to auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventAccountLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleTokenRefreshed)
}

func (a *AuditService) handleRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("AccountRegistered", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", zap.String("username", event.Username))
	a.markSeen(ctx, event.Username, event.Timestamp)
	return nil
}

func (a *AuditService) handleLoginFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", zap.String("username", event.Username))
	return nil
}

func (a *AuditService) handleLoggedOut(ctx context.Context, event events.Event) error {
	a.logger.Info("AccountLoggedOut", zap.String("username", event.Username))
	return nil
}

func (a *AuditService) handleTokenRefreshed(ctx context.Context, event events.Event) error {
	a.logger.Info("TokenRefreshed", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	a.markSeen(ctx, event.Username, event.Timestamp)
	return nil
}

func (a *AuditService) markSeen(ctx context.Context, username string, at time.Time) {
	if a.redis == nil || a.redis.Client == nil || username == "" {
		return
	}
	key := "auth:last-seen:" + username
	if err := a.redis.Client.Set(ctx, key, at.UTC().Format(time.RFC3339), a.ttl).Err(); err != nil {
		a.logger.Warn("record last-seen marker", zap.String("username", username), zap.Error(err))
	}
}

// LastSeen reads an account's most recent authenticated activity, if recorded.
func (a *AuditService) LastSeen(ctx context.Context, username string) (time.Time, bool) {
	if a.redis == nil || a.redis.Client == nil {
		return time.Time{}, false
	}
	val, err := a.redis.Client.Get(ctx, "auth:last-seen:"+username).Result()
	if err != nil {
		return time.Time{}, false
	}
	seen, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return seen, true
}
