package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/dates"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// Dashboard is the summary and trend series over an owner's full history.
type Dashboard struct {
	Summary ledger.Summary
	Series  ledger.Series
}

// DashboardService computes dashboard aggregates. "Today" is read from the clock in the
// configured location.
type DashboardService struct {
	storage  *storage.Storage
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(store *storage.Storage, location *time.Location) *DashboardService {
	if location == nil {
		location = time.Local
	}
	return &DashboardService{
		storage:  store,
		location: location,
		now:      time.Now,
	}
}

func (s *DashboardService) Dashboard(ctx context.Context, ownerID uuid.UUID, window ledger.Window) (*Dashboard, error) {
	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	records := transactionsFromStorage(rows)
	today := dates.Today(s.now(), s.location)
	return &Dashboard{
		Summary: ledger.Summarize(records),
		Series:  ledger.BucketSeries(records, window, today),
	}, nil
}
