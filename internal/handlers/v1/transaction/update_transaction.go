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

// UpdateTransactionInput replaces every mutable field of a transaction.
type UpdateTransactionInput struct {
	ID   string `path:"id" format:"uuid" doc:"Transaction UUID"`
	Body TransactionBody
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, fields ledger.Fields) (*ledger.Transaction, error)
}

// UpdateTransactionHandler handles PUT /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Replace transaction",
		Description: "Replaces every mutable field. Omitted kind and settlement fall back to their defaults.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	fields, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	updated, err := h.TransactionService.UpdateTransaction(ctx, ownerID, id, fields)
	if err != nil {
		return nil, apierr.FromService(err, "failed to update transaction")
	}
	return &TransactionOutput{Body: fromLedger(updated)}, nil
}
