package handler

import (
	"context"

	"qnabot/internal/domain"

	"go.uber.org/zap"
)

// onMemberStatus reacts to the bot being started, blocked or removed in a private chat
func onMemberStatus(ctx context.Context, upd *domain.Update, req *Request) (Reply, error) {
	logger := req.Logger.With(
		zap.Int64("chat_id", upd.ChatID),
		zap.Int64("user_id", upd.Sender.ID),
		zap.String("username", upd.Sender.Username),
	)

	switch upd.MemberStatus {
	case domain.MemberBanned:
		logger.Info("User has blocked the bot, deleting dialogue state")
		return Reply{Clear: true}, nil

	case domain.MemberJoined:
		authorized, err := req.Auth.Authorized(ctx, upd.Sender)
		if err != nil {
			return Reply{}, err
		}
		if !authorized {
			logger.Info("Unauthorized user connected, blocking chat")
			return moveTo(domain.Blocked()), nil
		}

		state, err := loadState(ctx, upd.ChatID, req)
		if err != nil {
			return Reply{}, err
		}
		if state.Is(domain.StateBlocked) {
			logger.Info("Authorized user reconnected, unblocking chat")
			return Reply{Clear: true}, nil
		}
		logger.Info("New user connected")
		return stay(), nil

	default:
		logger.Info("Unsupported member status", zap.String("status", string(upd.MemberStatus)))
		return stay(), nil
	}
}
