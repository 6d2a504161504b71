package transaction

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/ledger"
)

const bearer = "Authorization: Bearer test-token"

// stubVerifier accepts any token as the given owner.
type stubVerifier struct {
	owner uuid.UUID
}

func (s stubVerifier) Verify(string) (uuid.UUID, error) {
	return s.owner, nil
}

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, filter ledger.Filter, req ledger.PageRequest) (*ledger.Page, error) {
	args := m.Called(ctx, ownerID, filter, req)
	page, _ := args.Get(0).(*ledger.Page)
	return page, args.Error(1)
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, fields ledger.Fields) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, fields)
	tx, _ := args.Get(0).(*ledger.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	tx, _ := args.Get(0).(*ledger.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, fields ledger.Fields) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, id, fields)
	tx, _ := args.Get(0).(*ledger.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// newTestAPI registers every transaction handler behind the auth middleware.
func newTestAPI(t *testing.T, svc *mockTransactionService, owner uuid.UUID) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(auth.Middleware(api, stubVerifier{owner: owner}))
	NewListTransactionsHandler(svc).Register(api)
	NewCreateTransactionHandler(svc).Register(api)
	NewGetTransactionHandler(svc).Register(api)
	NewUpdateTransactionHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	return api
}
