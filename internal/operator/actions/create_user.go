package actions

import (
	"context"
	"strings"

	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type CreateUser struct {
	Name         string
	Email        string
	PasswordHash string

	Created *sqlconfig.User
}

func (c *CreateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Users.Insert(ctx, &sqlconfig.UserCreate{
		Name:         strings.TrimSpace(c.Name),
		Email:        strings.TrimSpace(c.Email),
		PasswordHash: c.PasswordHash,
	})
	if err != nil {
		return err
	}

	c.Created = created
	return nil
}
