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

// UpdateTransaction replaces every mutable field of one of the owner's transactions.
type UpdateTransaction struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
	Fields  ledger.Fields

	Updated *sqlconfig.Transaction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if u.OwnerID == uuid.Nil {
		return ledger.ErrMissingOwner
	}
	if err := u.Fields.Validate(); err != nil {
		return err
	}

	fields := toStorageFields(u.Fields)
	fields.Title = strings.TrimSpace(fields.Title)
	updated, err := writer.Transactions.Update(ctx, u.OwnerID, u.ID, &fields)
	if err != nil {
		return err
	}

	u.Updated = updated
	return nil
}

func (u *UpdateTransaction) Events() []events.Event {
	if u.Updated == nil {
		return nil
	}
	return []events.Event{{
		Type:          events.TransactionUpdated,
		OwnerID:       u.OwnerID,
		TransactionID: u.ID,
		OccurredAt:    u.Updated.UpdatedAt,
	}}
}
