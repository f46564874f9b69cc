// Package redis keeps dialogue state in redis, one JSON value per chat.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qnabot/internal/domain"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "dialogue:"

// DialogueRepo implements repository.DialogueStore.
// Entries other than Blocked expire after ttl; zero ttl keeps them forever.
type DialogueRepo struct {
	client Client
	ttl    time.Duration
}

// NewDialogueRepo creates a new redis dialogue repository
func NewDialogueRepo(client Client, ttl time.Duration) *DialogueRepo {
	return &DialogueRepo{client: client, ttl: ttl}
}

func dialogueKey(chatID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, chatID)
}

// GetState returns the chat's state, ShowingCategories if there is none
func (r *DialogueRepo) GetState(ctx context.Context, chatID int64) (domain.DialogueState, error) {
	val, err := r.client.Get(ctx, dialogueKey(chatID))
	if errors.Is(err, redis.Nil) {
		return domain.ShowingCategories(), nil
	}
	if err != nil {
		return domain.DialogueState{}, err
	}
	return domain.DecodeState([]byte(val))
}

// SetState stores the chat's state
func (r *DialogueRepo) SetState(ctx context.Context, chatID int64, state domain.DialogueState) error {
	data, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if state.Is(domain.StateBlocked) {
		ttl = 0
	}
	return r.client.Set(ctx, dialogueKey(chatID), data, ttl)
}

// DeleteState removes the chat's entry
func (r *DialogueRepo) DeleteState(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, dialogueKey(chatID))
}
