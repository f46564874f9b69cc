package handler

import (
	"context"
	"errors"
	"time"

	"qnabot/internal/chatqueue"
	"qnabot/internal/dispatch"
	"qnabot/internal/domain"
	"qnabot/internal/metrics"
	"qnabot/internal/repository"

	"go.uber.org/zap"
)

// ErrPersistence marks failures of the dialogue store.
// The chat keeps its previously stored state.
var ErrPersistence = errors.New("dialogue store failure")

// Sender delivers outbound messages to a chat
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) error
	SendDocuments(ctx context.Context, chatID int64, paths []string) error
}

// Authorizer is the auth gate used by the handler
type Authorizer interface {
	Authorized(ctx context.Context, sender domain.Sender) (bool, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Unblocker clears Blocked chats on admin request
type Unblocker interface {
	Unblock(ctx context.Context, chatID int64) (bool, error)
}

// Deps are the collaborators shared by every update
type Deps struct {
	Knowledge repository.KnowledgeRepository
	Dialogues repository.DialogueStore
	Auth      Authorizer
	Unblocker Unblocker
	Sender    Sender
	Metrics   *metrics.Metrics
	StaticDir string
	Logger    *zap.Logger
}

// Request is the per-update context passed through the dispatch tree.
// State is filled in once the dialogue has been loaded.
type Request struct {
	*Deps
	State domain.DialogueState
}

// Handler routes updates through the dispatch tree
type Handler struct {
	deps   Deps
	tree   *dispatch.Tree[*Request]
	queue  *chatqueue.Queue
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(deps Deps, queue *chatqueue.Queue) *Handler {
	h := &Handler{
		deps:   deps,
		queue:  queue,
		logger: deps.Logger,
	}
	h.tree = buildTree(deps.Auth, deps.Logger)
	h.logger.Debug("Dispatch tree built", zap.String("tree", h.tree.Describe()))
	return h
}

// Describe renders the dispatch tree
func (h *Handler) Describe() string {
	return h.tree.Describe()
}

// Handle processes one update synchronously and returns the endpoint that ran
func (h *Handler) Handle(ctx context.Context, upd *domain.Update) (string, error) {
	start := time.Now()
	req := &Request{Deps: &h.deps}

	name, err := h.tree.Dispatch(ctx, upd, req)
	h.deps.Metrics.ObserveUpdate(name, err, time.Since(start))

	if err != nil {
		h.logger.Error("Failed to handle update",
			zap.Int("update_id", upd.ID),
			zap.Int64("chat_id", upd.ChatID),
			zap.String("endpoint", name),
			zap.Error(err),
		)
	}
	return name, err
}

// Enqueue schedules upd after every update already queued for the same chat
func (h *Handler) Enqueue(upd *domain.Update) error {
	err := h.queue.Submit(upd.ChatID, func() {
		_, _ = h.Handle(context.Background(), upd)
	})
	if err != nil {
		h.logger.Warn("Dropping update", zap.Int("update_id", upd.ID), zap.Error(err))
	}
	return err
}
