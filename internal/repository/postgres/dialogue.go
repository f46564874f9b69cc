package postgres

import (
	"context"
	"database/sql"
	"time"

	"qnabot/internal/domain"
)

// DialogueRepo implements repository.DialogueStore and repository.StalePruner
type DialogueRepo struct {
	db *sql.DB
}

// NewDialogueRepo creates a new dialogue repository
func NewDialogueRepo(db *sql.DB) *DialogueRepo {
	return &DialogueRepo{db: db}
}

// GetState returns the chat's state, ShowingCategories if there is none
func (r *DialogueRepo) GetState(ctx context.Context, chatID int64) (domain.DialogueState, error) {
	var data []byte
	query := `SELECT state FROM dialogues WHERE chat_id = $1`
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&data)

	if err == sql.ErrNoRows {
		return domain.ShowingCategories(), nil
	}
	if err != nil {
		return domain.DialogueState{}, err
	}

	return domain.DecodeState(data)
}

// SetState stores the chat's state
func (r *DialogueRepo) SetState(ctx context.Context, chatID int64, state domain.DialogueState) error {
	data, err := domain.EncodeState(state)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO dialogues (chat_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (chat_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, chatID, string(data))
	return err
}

// DeleteState removes the chat's entry
func (r *DialogueRepo) DeleteState(ctx context.Context, chatID int64) error {
	query := `DELETE FROM dialogues WHERE chat_id = $1`
	_, err := r.db.ExecContext(ctx, query, chatID)
	return err
}

// DeleteStale removes entries not updated within olderThan, keeping blocked chats
func (r *DialogueRepo) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM dialogues
		WHERE updated_at < NOW() - INTERVAL '1 second' * $1
			AND state->>'state' <> $2
	`
	res, err := r.db.ExecContext(ctx, query, int64(olderThan.Seconds()), string(domain.StateBlocked))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
