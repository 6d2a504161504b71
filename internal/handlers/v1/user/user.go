package user

import (
	"time"

	"github.com/carson-networks/expense-server/internal/service"
)

// User is the API response model for a user profile.
type User struct {
	ID        string `json:"id" doc:"User UUID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl" doc:"http(s) or image data URL, empty when unset"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 registration time"`
}

func fromService(u *service.User) User {
	return User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
