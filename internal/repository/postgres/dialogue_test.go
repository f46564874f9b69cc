package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"qnabot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDialogueRepo_GetState(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      domain.DialogueState
		expectedError error
	}{
		{
			name:     "no entry means showing categories",
			mockError: sql.ErrNoRows,
			expected: domain.ShowingCategories(),
		},
		{
			name:     "showing questions",
			mockRows: sqlmock.NewRows([]string{"state"}).AddRow([]byte(`{"state":"showing_questions","category":"Rust"}`)),
			expected: domain.ShowingQuestions("Rust"),
		},
		{
			name:     "blocked",
			mockRows: sqlmock.NewRows([]string{"state"}).AddRow([]byte(`{"state":"blocked"}`)),
			expected: domain.Blocked(),
		},
		{
			name:          "state from an older schema",
			mockRows:      sqlmock.NewRows([]string{"state"}).AddRow([]byte(`{"ShowingQuestions":{"category":"Rust"}}`)),
			expected:      domain.ShowingCategories(),
			expectedError: domain.ErrCorruptState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewDialogueRepo(db)

			query := "SELECT state FROM dialogues WHERE chat_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnRows(tt.mockRows)
			}

			state, err := repo.GetState(context.Background(), 42)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, state)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDialogueRepo_GetState_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDialogueRepo(db)

	mock.ExpectQuery("SELECT state FROM dialogues").WillReturnError(fmt.Errorf("db error"))

	_, err = repo.GetState(context.Background(), 42)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialogueRepo_SetState(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDialogueRepo(db)

	mock.ExpectExec("INSERT INTO dialogues").
		WithArgs(int64(42), `{"state":"showing_questions","category":"Rust"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetState(context.Background(), 42, domain.ShowingQuestions("Rust"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialogueRepo_DeleteState(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDialogueRepo(db)

	mock.ExpectExec("DELETE FROM dialogues WHERE chat_id = \\$1").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteState(context.Background(), 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialogueRepo_DeleteStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDialogueRepo(db)

	mock.ExpectExec("DELETE FROM dialogues").
		WithArgs(int64(86400), "blocked").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteStale(context.Background(), 24*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
