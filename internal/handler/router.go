package handler

import (
	"context"
	"errors"
	"fmt"

	"qnabot/internal/dispatch"
	"qnabot/internal/domain"
	"qnabot/internal/middleware"

	"go.uber.org/zap"
)

func buildTree(auth Authorizer, logger *zap.Logger) *dispatch.Tree[*Request] {
	dialogue := dispatch.Filter(loadDialogue).Named("load dialogue").Branch(
		dispatch.Filter(inState(domain.StateBlocked)).Named("state blocked").
			Endpoint("blocked", endpoint(onBlocked)),
		dispatch.Filter(isCommand("/start")).Named("command /start").
			Endpoint("start", endpoint(onStart)),
		dispatch.Filter(isCommand("/help")).Named("command /help").
			Endpoint("help", endpoint(onHelp)),
		dispatch.Filter(isCommand("/unblock")).Named("command /unblock").Branch(
			dispatch.Filter(isAdmin).Named("admin").Endpoint("unblock", endpoint(onUnblock)),
		),
		dispatch.Filter(inState(domain.StateShowingCategories)).Named("state showing categories").
			Endpoint("category_select", endpoint(onCategorySelect)),
		dispatch.Filter(inState(domain.StateShowingQuestions)).Named("state showing questions").
			Endpoint("question_select", endpoint(onQuestionSelect)),
	)

	messages := dispatch.Filter(isMessage).Named("message").Branch(
		dispatch.Filter(middleware.AuthFailed[*Request](auth, logger)).Named("auth failed").
			Endpoint("not_authorized", endpoint(onNotAuthorized)),
		dialogue,
	)

	root := dispatch.Entry[*Request]().Branch(
		dispatch.Filter(isGroupChat).Named("group chat").Endpoint("group", onGroupUpdate),
		dispatch.Filter(isPrivateChat).Named("private chat").Branch(
			messages,
			dispatch.Filter(isMemberStatus).Named("member status").
				Endpoint("member_status", endpoint(onMemberStatus)),
		),
	)

	return dispatch.NewTree(root, onUnhandled)
}

func isPrivateChat(_ context.Context, upd *domain.Update, _ *Request) (bool, error) {
	return upd.ChatKind == domain.ChatPrivate, nil
}

func isGroupChat(_ context.Context, upd *domain.Update, _ *Request) (bool, error) {
	return upd.ChatKind == domain.ChatGroup || upd.ChatKind == domain.ChatSupergroup, nil
}

func isMessage(_ context.Context, upd *domain.Update, _ *Request) (bool, error) {
	return upd.Kind == domain.UpdateMessage, nil
}

func isMemberStatus(_ context.Context, upd *domain.Update, _ *Request) (bool, error) {
	return upd.Kind == domain.UpdateMemberStatus, nil
}

func isCommand(name string) dispatch.Predicate[*Request] {
	return func(_ context.Context, upd *domain.Update, _ *Request) (bool, error) {
		cmd, _, ok := upd.Command()
		return ok && cmd == name, nil
	}
}

func inState(kind domain.StateKind) dispatch.Predicate[*Request] {
	return func(_ context.Context, _ *domain.Update, req *Request) (bool, error) {
		return req.State.Is(kind), nil
	}
}

// loadDialogue reads the chat's state into the request. It always matches;
// store failures abort the update.
func loadDialogue(ctx context.Context, upd *domain.Update, req *Request) (bool, error) {
	state, err := loadState(ctx, upd.ChatID, req)
	if err != nil {
		return false, err
	}
	req.State = state
	return true, nil
}

func loadState(ctx context.Context, chatID int64, req *Request) (domain.DialogueState, error) {
	state, err := req.Dialogues.GetState(ctx, chatID)
	if errors.Is(err, domain.ErrCorruptState) {
		req.Logger.Warn("Stored dialogue state is unreadable, using default",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return domain.ShowingCategories(), nil
	}
	if err != nil {
		return domain.DialogueState{}, fmt.Errorf("%w: load chat %d: %w", ErrPersistence, chatID, err)
	}
	return state, nil
}

func isAdmin(ctx context.Context, upd *domain.Update, req *Request) (bool, error) {
	admin, err := req.Auth.IsAdmin(ctx, upd.Sender.ID)
	if err != nil {
		req.Logger.Error("Failed to check admin rights",
			zap.Int64("user_id", upd.Sender.ID),
			zap.Error(err),
		)
		return false, nil
	}
	return admin, nil
}

func onGroupUpdate(_ context.Context, upd *domain.Update, req *Request) error {
	req.Logger.Debug("Ignoring group chat update",
		zap.Int64("chat_id", upd.ChatID),
		zap.String("chat_kind", string(upd.ChatKind)),
	)
	return nil
}

func onUnhandled(_ context.Context, upd *domain.Update, req *Request) error {
	req.Logger.Debug("Unhandled update",
		zap.Int("update_id", upd.ID),
		zap.Int64("chat_id", upd.ChatID),
		zap.String("chat_kind", string(upd.ChatKind)),
	)
	return nil
}
