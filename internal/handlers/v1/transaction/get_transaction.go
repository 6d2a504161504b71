package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/handlers/apierr"
	"github.com/carson-networks/expense-server/internal/ledger"
)

// TransactionIDInput identifies one transaction by path.
type TransactionIDInput struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

type transactionGetter interface {
	GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{id}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*TransactionOutput, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	found, err := h.TransactionService.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, apierr.FromService(err, "failed to get transaction")
	}
	return &TransactionOutput{Body: fromLedger(found)}, nil
}
