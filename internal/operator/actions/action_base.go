package actions

import (
	"context"
	"time"

	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// INotifier is implemented by actions whose committed result other parts of the system are
// told about.
type INotifier interface {
	Events() []events.Event
}

func toStorageFields(f ledger.Fields) sqlconfig.TransactionFields {
	return sqlconfig.TransactionFields{
		Title:      f.Title,
		Amount:     f.Amount,
		Category:   string(f.Category),
		Kind:       string(f.Kind),
		Settlement: string(f.Settlement),
		Date:       f.Date.Time(time.UTC),
		Notes:      f.Notes,
	}
}
