package repository

import (
	"context"
	"time"

	"qnabot/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	// GetUser returns nil if the user does not exist
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	// CreateUser stores a new user, leaving an existing record untouched
	CreateUser(ctx context.Context, user *domain.User) (int64, error)
}

// KnowledgeRepository defines read-only knowledge base lookups.
// Only entries visible to bot users are returned.
type KnowledgeRepository interface {
	GetPublicCategories(ctx context.Context) ([]domain.Category, error)
	GetPublicQuestions(ctx context.Context, category string) ([]domain.Question, error)
	// GetQuestion returns nil if the category has no such public question
	GetQuestion(ctx context.Context, category, question string) (*domain.Question, error)
}

// DialogueStore persists conversation state per chat.
// GetState returns the default state for chats without an entry.
type DialogueStore interface {
	GetState(ctx context.Context, chatID int64) (domain.DialogueState, error)
	SetState(ctx context.Context, chatID int64, state domain.DialogueState) error
	DeleteState(ctx context.Context, chatID int64) error
}

// StalePruner is implemented by dialogue stores that can drop idle entries.
// Blocked entries are never pruned.
type StalePruner interface {
	DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
}
