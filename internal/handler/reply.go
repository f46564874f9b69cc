package handler

import (
	"context"
	"fmt"

	"qnabot/internal/dispatch"
	"qnabot/internal/domain"

	"go.uber.org/zap"
)

// Outbound is one message to send. Documents, when set, are sent as one album.
type Outbound struct {
	Text      string
	Keyboard  *domain.Keyboard
	Documents []string
}

// Answered identifies the question an answer was sent for
type Answered struct {
	Category string
	Question string
}

// Reply is the outcome of a transition: messages to send, then the state change.
// A nil Next leaves the stored state untouched; Clear deletes it.
type Reply struct {
	Messages []Outbound
	Next     *domain.DialogueState
	Clear    bool
	Answered *Answered
}

// Transition decides the reply for one update without side effects on the store
type Transition func(ctx context.Context, upd *domain.Update, req *Request) (Reply, error)

func textMessage(text string, kb *domain.Keyboard) Outbound {
	return Outbound{Text: text, Keyboard: kb}
}

func stay(msgs ...Outbound) Reply {
	return Reply{Messages: msgs}
}

func moveTo(state domain.DialogueState, msgs ...Outbound) Reply {
	return Reply{Messages: msgs, Next: &state}
}

// endpoint runs t, sends its messages in order and then persists the state change.
// A failed send ends the update without touching the store.
func endpoint(t Transition) dispatch.Handler[*Request] {
	return func(ctx context.Context, upd *domain.Update, req *Request) error {
		reply, err := t(ctx, upd, req)
		if err != nil {
			return err
		}
		return apply(ctx, upd.ChatID, req, reply)
	}
}

func apply(ctx context.Context, chatID int64, req *Request, reply Reply) error {
	for _, msg := range reply.Messages {
		if err := send(ctx, chatID, req.Sender, msg); err != nil {
			req.Logger.Warn("Failed to send message",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return nil
		}
	}

	if reply.Answered != nil {
		req.Metrics.IncQuestionAnswered(reply.Answered.Category, reply.Answered.Question)
	}

	switch {
	case reply.Clear:
		if err := req.Dialogues.DeleteState(ctx, chatID); err != nil {
			return fmt.Errorf("%w: delete chat %d: %w", ErrPersistence, chatID, err)
		}
	case reply.Next != nil:
		if err := req.Dialogues.SetState(ctx, chatID, *reply.Next); err != nil {
			return fmt.Errorf("%w: store chat %d: %w", ErrPersistence, chatID, err)
		}
		req.Logger.Debug("Dialogue state changed",
			zap.Int64("chat_id", chatID),
			zap.Stringer("state", reply.Next),
		)
	}
	return nil
}

func send(ctx context.Context, chatID int64, sender Sender, msg Outbound) error {
	if len(msg.Documents) > 0 {
		return sender.SendDocuments(ctx, chatID, msg.Documents)
	}
	return sender.SendText(ctx, chatID, msg.Text, msg.Keyboard)
}
