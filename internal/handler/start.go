package handler

import (
	"context"
	"fmt"
	"strconv"

	"qnabot/internal/domain"

	"go.uber.org/zap"
)

const helpText = "These commands are supported:\n\n" +
	"/help - Display this text\n" +
	"/start - Start"

const unblockUsageText = "Usage: /unblock <chat_id>"

// onStart resets the dialogue to the main menu
func onStart(ctx context.Context, upd *domain.Update, req *Request) (Reply, error) {
	req.Logger.Info("User started bot",
		zap.Int64("user_id", upd.Sender.ID),
		zap.String("username", upd.Sender.Username),
	)

	menu, err := mainMenu(ctx, req, mainMenuText)
	if err != nil {
		return Reply{}, err
	}
	return moveTo(domain.ShowingCategories(), menu), nil
}

func onHelp(context.Context, *domain.Update, *Request) (Reply, error) {
	return stay(textMessage(helpText, nil)), nil
}

// onUnblock clears the Blocked state of another chat
func onUnblock(ctx context.Context, upd *domain.Update, req *Request) (Reply, error) {
	_, payload, _ := upd.Command()
	chatID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return stay(textMessage(unblockUsageText, nil)), nil
	}

	unblocked, err := req.Unblocker.Unblock(ctx, chatID)
	if err != nil {
		return Reply{}, fmt.Errorf("unblock chat %d: %w", chatID, err)
	}

	req.Logger.Info("Unblock requested",
		zap.Int64("admin_id", upd.Sender.ID),
		zap.Int64("target_chat_id", chatID),
		zap.Bool("unblocked", unblocked),
	)

	if !unblocked {
		return stay(textMessage(fmt.Sprintf("Chat %d is not blocked", chatID), nil)), nil
	}
	return stay(textMessage(fmt.Sprintf("Chat %d unblocked", chatID), nil)), nil
}
