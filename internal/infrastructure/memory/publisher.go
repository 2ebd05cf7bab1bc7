package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

// LogPublisher stands in for RabbitMQ in dev: events are only logged.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (p *LogPublisher) log(ctx context.Context, kind string, evt users.UserEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("event", kind).
		Int64("user_id", evt.UserID).
		Time("occurred_at", evt.OccurredAt).
		Msg("noop publish")
	return nil
}

func (p *LogPublisher) PublishUserCreated(ctx context.Context, evt users.UserEvent) error {
	return p.log(ctx, "user.created", evt)
}

func (p *LogPublisher) PublishUserUpdated(ctx context.Context, evt users.UserEvent) error {
	return p.log(ctx, "user.updated", evt)
}

func (p *LogPublisher) PublishUserDeleted(ctx context.Context, evt users.UserEvent) error {
	return p.log(ctx, "user.deleted", evt)
}
