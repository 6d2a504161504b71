package actions

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// UpdateUser changes a user's profile fields.
type UpdateUser struct {
	ID        uuid.UUID
	Name      string
	AvatarURL string

	Updated *sqlconfig.User
}

func (u *UpdateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	updated, err := writer.Users.Update(ctx, u.ID, &sqlconfig.UserUpdate{
		Name:      strings.TrimSpace(u.Name),
		AvatarURL: strings.TrimSpace(u.AvatarURL),
	})
	if err != nil {
		return err
	}

	u.Updated = updated
	return nil
}
