package actions

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type CreateTransaction struct {
	OwnerID uuid.UUID
	Fields  ledger.Fields

	Created *sqlconfig.Transaction
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if c.OwnerID == uuid.Nil {
		return ledger.ErrMissingOwner
	}
	if err := c.Fields.Validate(); err != nil {
		return err
	}

	fields := toStorageFields(c.Fields)
	fields.Title = strings.TrimSpace(fields.Title)
	created, err := writer.Transactions.Insert(ctx, &sqlconfig.TransactionCreate{
		OwnerID:           c.OwnerID,
		TransactionFields: fields,
	})
	if err != nil {
		return err
	}

	c.Created = created
	return nil
}

func (c *CreateTransaction) Events() []events.Event {
	if c.Created == nil {
		return nil
	}
	return []events.Event{{
		Type:          events.TransactionCreated,
		OwnerID:       c.OwnerID,
		TransactionID: c.Created.ID,
		OccurredAt:    c.Created.CreatedAt,
	}}
}
