package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage"
)

type DeleteTransaction struct {
	OwnerID uuid.UUID
	ID      uuid.UUID

	deleted bool
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if d.OwnerID == uuid.Nil {
		return ledger.ErrMissingOwner
	}
	if err := writer.Transactions.Delete(ctx, d.OwnerID, d.ID); err != nil {
		return err
	}
	d.deleted = true
	return nil
}

// Events leaves OccurredAt unset; the operator stamps it at publish time.
func (d *DeleteTransaction) Events() []events.Event {
	if !d.deleted {
		return nil
	}
	return []events.Event{{
		Type:          events.TransactionDeleted,
		OwnerID:       d.OwnerID,
		TransactionID: d.ID,
	}}
}
