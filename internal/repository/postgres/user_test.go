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

func TestUserRepo_GetUser(t *testing.T) {
	columns := []string{"id", "username", "first_name", "last_name", "is_admin", "active", "created_at"}
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expected      *domain.User
		expectedError bool
	}{
		{
			name:     "active user",
			userID:   123,
			mockRows: sqlmock.NewRows(columns).AddRow(123, "alice", "Alice", "Smith", false, true, createdAt),
			expected: &domain.User{
				ID: 123, Username: "alice", FirstName: "Alice", LastName: "Smith", Active: true, CreatedAt: createdAt,
			},
		},
		{
			name:     "user without optional names",
			userID:   456,
			mockRows: sqlmock.NewRows(columns).AddRow(456, nil, "Bob", nil, true, false, createdAt),
			expected: &domain.User{ID: 456, FirstName: "Bob", IsAdmin: true, CreatedAt: createdAt},
		},
		{
			name:      "user not exists",
			userID:    789,
			mockError: sql.ErrNoRows,
			expected:  nil,
		},
		{
			name:          "database error",
			userID:        789,
			mockError:     fmt.Errorf("connection reset"),
			expected:      nil,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			query := "SELECT id, username, first_name, last_name, is_admin, active, created_at FROM users WHERE id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			user, err := repo.GetUser(context.Background(), tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, user)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	user := &domain.User{ID: 123, FirstName: "Alice", Username: "alice"}

	// Empty last name is stored as NULL
	mock.ExpectExec("INSERT INTO users").
		WithArgs(int64(123), "alice", "Alice", nil, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, int64(123), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateUser_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(fmt.Errorf("db error"))

	id, err := repo.CreateUser(context.Background(), &domain.User{ID: 1, FirstName: "A"})

	assert.Error(t, err)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
