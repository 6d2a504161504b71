// Package memory keeps the record store in process memory. It backs local runs and tests
// and follows the same semantics as the Postgres tables.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

var errMissingOwner = errors.New("transaction filter requires an owner")

var _ sqlconfig.ITransactionTable = (*TransactionsTable)(nil)

type TransactionsTable struct {
	mu   sync.RWMutex
	rows []sqlconfig.Transaction
	seq  int64
	now  func() time.Time
}

func NewTransactionsTable(now func() time.Time) *TransactionsTable {
	return &TransactionsTable{now: now}
}

func (t *TransactionsTable) FindByID(_ context.Context, ownerID, id uuid.UUID) (*sqlconfig.Transaction, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indexOf(ownerID, id)
	if i < 0 {
		return nil, sqlconfig.ErrNotFound
	}
	row := t.rows[i]
	return &row, nil
}

func (t *TransactionsTable) Insert(_ context.Context, create *sqlconfig.TransactionCreate) (*sqlconfig.Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	now := t.now()
	row := sqlconfig.Transaction{
		ID:        id,
		Seq:       t.seq,
		OwnerID:   create.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyFields(&row, &create.TransactionFields)
	t.rows = append(t.rows, row)
	return &row, nil
}

func (t *TransactionsTable) Update(_ context.Context, ownerID, id uuid.UUID, fields *sqlconfig.TransactionFields) (*sqlconfig.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(ownerID, id)
	if i < 0 {
		return nil, sqlconfig.ErrNotFound
	}
	applyFields(&t.rows[i], fields)
	t.rows[i].UpdatedAt = t.now()
	row := t.rows[i]
	return &row, nil
}

func (t *TransactionsTable) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(ownerID, id)
	if i < 0 {
		return sqlconfig.ErrNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *TransactionsTable) List(_ context.Context, filter *sqlconfig.TransactionFilter) ([]*sqlconfig.Transaction, error) {
	if filter == nil || filter.OwnerID == uuid.Nil {
		return nil, errMissingOwner
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := t.match(filter)
	ledger.SortNewestFirst(matched)

	start := filter.Offset
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	byID := make(map[uuid.UUID]sqlconfig.Transaction, len(t.rows))
	for _, row := range t.rows {
		byID[row.ID] = row
	}
	result := make([]*sqlconfig.Transaction, 0, end-start)
	for _, m := range matched[start:end] {
		row := byID[m.ID]
		result = append(result, &row)
	}
	return result, nil
}

func (t *TransactionsTable) Count(_ context.Context, filter *sqlconfig.TransactionFilter) (int, error) {
	if filter == nil || filter.OwnerID == uuid.Nil {
		return 0, errMissingOwner
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.match(filter)), nil
}

func (t *TransactionsTable) match(filter *sqlconfig.TransactionFilter) []ledger.Transaction {
	f := ledger.Filter{
		Category:      ledger.Category(filter.Category),
		Settlement:    ledger.Settlement(filter.Settlement),
		Kind:          ledger.Kind(filter.Kind),
		TitleContains: filter.TitleContains,
	}
	var matched []ledger.Transaction
	for _, row := range t.rows {
		lt := ledger.Transaction{
			ID:         row.ID,
			OwnerID:    row.OwnerID,
			Title:      row.Title,
			Category:   ledger.Category(row.Category),
			Kind:       ledger.Kind(row.Kind),
			Settlement: ledger.Settlement(row.Settlement),
			Date:       row.Date,
			Seq:        row.Seq,
		}
		if f.Matches(filter.OwnerID, lt) {
			matched = append(matched, lt)
		}
	}
	return matched
}

func (t *TransactionsTable) indexOf(ownerID, id uuid.UUID) int {
	for i, row := range t.rows {
		if row.ID == id && row.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func applyFields(row *sqlconfig.Transaction, f *sqlconfig.TransactionFields) {
	row.Title = f.Title
	row.Amount = f.Amount
	row.Category = f.Category
	row.Kind = f.Kind
	row.Settlement = f.Settlement
	row.Date = calendarDay(f.Date)
	row.Notes = f.Notes
}

// calendarDay drops the clock, as a Postgres date column does.
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
