package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
)

// actionProcessor runs write actions inside a storage transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage  *storage.Storage
	operator actionProcessor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op actionProcessor) *TransactionService {
	return &TransactionService{storage: store, operator: op}
}

// CreateTransaction validates and stores a new transaction for ownerID.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, fields ledger.Fields) (*ledger.Transaction, error) {
	action := &actions.CreateTransaction{OwnerID: ownerID, Fields: fields}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}
	created := transactionFromStorage(action.Created)
	return &created, nil
}

// GetTransaction returns one of the owner's transactions. Records of other owners are
// reported as ErrNotFound.
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateError(err)
	}
	found := transactionFromStorage(row)
	return &found, nil
}

// UpdateTransaction replaces the mutable fields of one of the owner's transactions.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, fields ledger.Fields) (*ledger.Transaction, error) {
	action := &actions.UpdateTransaction{OwnerID: ownerID, ID: id, Fields: fields}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, translateError(err)
	}
	updated := transactionFromStorage(action.Updated)
	return &updated, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	action := &actions.DeleteTransaction{OwnerID: ownerID, ID: id}
	return translateError(s.operator.Process(ctx, action))
}

// ListTransactions returns one page of the owner's transactions matching filter, newest first,
// with the total number of matches. The page and the count are fetched concurrently.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, filter ledger.Filter, req ledger.PageRequest) (*ledger.Page, error) {
	req = req.Normalize()

	pageFilter := filterToStorage(ownerID, filter)
	pageFilter.Limit = req.Limit
	pageFilter.Offset = req.Offset()
	countFilter := filterToStorage(ownerID, filter)

	var (
		items []ledger.Transaction
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.storage.Transactions.List(gctx, &pageFilter)
		if err != nil {
			return err
		}
		items = transactionsFromStorage(rows)
		return nil
	})
	g.Go(func() error {
		count, err := s.storage.Transactions.Count(gctx, &countFilter)
		if err != nil {
			return err
		}
		total = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ledger.Page{
		Items: items,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}
