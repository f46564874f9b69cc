// Package memory keeps dialogue state in process memory.
// State is lost on restart; use it for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"qnabot/internal/domain"
)

type entry struct {
	state     domain.DialogueState
	updatedAt time.Time
}

// DialogueRepo implements repository.DialogueStore and repository.StalePruner
type DialogueRepo struct {
	mu      sync.RWMutex
	entries map[int64]entry
	now     func() time.Time
}

// NewDialogueRepo creates an empty in-memory dialogue repository
func NewDialogueRepo() *DialogueRepo {
	return &DialogueRepo{
		entries: make(map[int64]entry),
		now:     time.Now,
	}
}

// GetState returns the chat's state, ShowingCategories if there is none
func (r *DialogueRepo) GetState(_ context.Context, chatID int64) (domain.DialogueState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[chatID]
	if !ok {
		return domain.ShowingCategories(), nil
	}
	return e.state, nil
}

// SetState stores the chat's state
func (r *DialogueRepo) SetState(_ context.Context, chatID int64, state domain.DialogueState) error {
	if state.Kind == "" {
		state = domain.ShowingCategories()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[chatID] = entry{state: state, updatedAt: r.now()}
	return nil
}

// DeleteState removes the chat's entry
func (r *DialogueRepo) DeleteState(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, chatID)
	return nil
}

// DeleteStale removes entries not updated within olderThan, keeping blocked chats
func (r *DialogueRepo) DeleteStale(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for chatID, e := range r.entries {
		if e.state.Is(domain.StateBlocked) || !e.updatedAt.Before(cutoff) {
			continue
		}
		delete(r.entries, chatID)
		deleted++
	}
	return deleted, nil
}

// Len returns the number of stored entries
func (r *DialogueRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
