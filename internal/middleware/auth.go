package middleware

import (
	"context"

	"qnabot/internal/dispatch"
	"qnabot/internal/domain"

	"go.uber.org/zap"
)

// Authorizer reports whether a sender may use the bot
type Authorizer interface {
	Authorized(ctx context.Context, sender domain.Sender) (bool, error)
}

// AuthFailed creates a dispatch predicate that holds when the sender is NOT authorized.
// Lookup errors are logged and treated as not authorized.
func AuthFailed[D any](auth Authorizer, logger *zap.Logger) dispatch.Predicate[D] {
	return func(ctx context.Context, upd *domain.Update, _ D) (bool, error) {
		authorized, err := auth.Authorized(ctx, upd.Sender)
		if err != nil {
			logger.Error("Failed to check authorization",
				zap.Int64("user_id", upd.Sender.ID),
				zap.Int64("chat_id", upd.ChatID),
				zap.Error(err),
			)
			return true, nil
		}
		if !authorized {
			logger.Info("Unauthorized access attempt",
				zap.Int64("user_id", upd.Sender.ID),
				zap.String("username", upd.Sender.Username),
			)
		}
		return !authorized, nil
	}
}
