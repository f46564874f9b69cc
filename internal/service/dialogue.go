package service

import (
	"context"
	"fmt"
	"time"

	"qnabot/internal/domain"
	"qnabot/internal/repository"

	"go.uber.org/zap"
)

// DialogueService handles dialogue maintenance outside the normal conversation flow
type DialogueService struct {
	store     repository.DialogueStore
	retention time.Duration
	logger    *zap.Logger
}

// NewDialogueService creates a new dialogue service.
// Zero retention disables CleanupStale.
func NewDialogueService(store repository.DialogueStore, retention time.Duration, logger *zap.Logger) *DialogueService {
	return &DialogueService{
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

// Unblock clears a Blocked chat. It reports false if the chat was not blocked.
func (s *DialogueService) Unblock(ctx context.Context, chatID int64) (bool, error) {
	state, err := s.store.GetState(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("get state of chat %d: %w", chatID, err)
	}
	if !state.Is(domain.StateBlocked) {
		return false, nil
	}
	if err := s.store.DeleteState(ctx, chatID); err != nil {
		return false, fmt.Errorf("delete state of chat %d: %w", chatID, err)
	}

	s.logger.Info("Chat unblocked", zap.Int64("chat_id", chatID))
	return true, nil
}

// CleanupStale removes dialogues idle for longer than the retention period.
// Stores that cannot prune are skipped.
func (s *DialogueService) CleanupStale(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}
	pruner, ok := s.store.(repository.StalePruner)
	if !ok {
		s.logger.Debug("Dialogue store does not support cleanup")
		return nil
	}

	s.logger.Info("Starting cleanup of stale dialogues", zap.Duration("retention", s.retention))

	deleted, err := pruner.DeleteStale(ctx, s.retention)
	if err != nil {
		s.logger.Error("Failed to cleanup stale dialogues", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("deleted", deleted))
	return nil
}
