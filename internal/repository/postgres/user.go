package postgres

import (
	"context"
	"database/sql"

	"qnabot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser returns the user or nil if it does not exist
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	var username, lastName sql.NullString
	query := `
		SELECT id, username, first_name, last_name, is_admin, active, created_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &username, &u.FirstName, &lastName, &u.IsAdmin, &u.Active, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.LastName = lastName.String
	return &u, nil
}

// CreateUser inserts the user unless a record with the same id exists
func (r *UserRepo) CreateUser(ctx context.Context, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (id, username, first_name, last_name, is_admin, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullString(user.Username),
		user.FirstName,
		nullString(user.LastName),
		user.IsAdmin,
		user.Active,
	)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
