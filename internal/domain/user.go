package domain

import "time"

// User represents a bot user known to the knowledge base
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsAdmin   bool
	Active    bool
	CreatedAt time.Time
}

// Sender is the Telegram account an update came from
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// NewUserFromSender builds the record stored on first contact
func NewUserFromSender(s Sender) *User {
	return &User{
		ID:        s.ID,
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
