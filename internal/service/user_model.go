package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// User is the public view of an account holder. The password hash never leaves storage.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	AvatarURL string
	CreatedAt time.Time
}

// Session is the result of a successful register or login.
type Session struct {
	Token string
	User  User
}

// ProfileUpdate changes a user's profile. An empty Name keeps the current name; a nil AvatarURL
// keeps the current avatar and an empty one clears it.
type ProfileUpdate struct {
	Name      string
	AvatarURL *string
}

func userFromStorage(row *sqlconfig.User) User {
	return User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		AvatarURL: row.AvatarURL,
		CreatedAt: row.CreatedAt,
	}
}
