package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents a user record.
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	AvatarURL    string    `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserCreate is the input for creating a new user.
type UserCreate struct {
	Name         string
	Email        string
	PasswordHash string
}

// UserUpdate holds the profile fields a user may change.
type UserUpdate struct {
	Name      string
	AvatarURL string
}

// IUserTable defines the interface for user storage operations.
// Email lookups are case-insensitive; Insert returns ErrDuplicate for a taken email.
//
//go:generate mockery --name IUserTable --output mock_IUserTable.go
type IUserTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, create *UserCreate) (*User, error)
	Update(ctx context.Context, id uuid.UUID, update *UserUpdate) (*User, error)
}
