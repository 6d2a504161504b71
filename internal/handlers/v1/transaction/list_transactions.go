package transaction

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/handlers/apierr"
	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/logging"
)

// ListTransactionsInput is the Huma input for listing transactions. Unknown filter values
// match nothing rather than failing the request.
type ListTransactionsInput struct {
	Category   string `query:"category" doc:"Only this category"`
	Settlement string `query:"settlement" doc:"Only paid or only pending"`
	Kind       string `query:"kind" doc:"Only expense or only income"`
	Query      string `query:"q" maxLength:"200" doc:"Case-insensitive title substring"`
	Page       int    `query:"page" maximum:"1000000" doc:"1-based page number, defaults to 1"`
	Limit      int    `query:"limit" maximum:"100" doc:"Page size, defaults to 10"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Items []Transaction `json:"items" doc:"Page of transactions, newest first"`
	Total int           `json:"total" doc:"Number of transactions matching the filter"`
	Page  int           `json:"page" doc:"Page returned"`
	Limit int           `json:"limit" doc:"Page size used"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, ownerID uuid.UUID, filter ledger.Filter, req ledger.PageRequest) (*ledger.Page, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns one page of the caller's transactions, newest first, with the total number of matches.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

// parseListTransactionsInput maps query parameters onto a filter and page request. Paging
// values below 1 fall back to the defaults.
func parseListTransactionsInput(input *ListTransactionsInput) (ledger.Filter, ledger.PageRequest) {
	filter := ledger.Filter{
		Category:      ledger.Category(strings.TrimSpace(input.Category)),
		Settlement:    ledger.Settlement(strings.TrimSpace(input.Settlement)),
		Kind:          ledger.Kind(strings.TrimSpace(input.Kind)),
		TitleContains: strings.TrimSpace(input.Query),
	}
	req := ledger.PageRequest{Page: input.Page, Limit: input.Limit}.Normalize()
	return filter, req
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)
	filter, req := parseListTransactionsInput(input)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	page, err := h.TransactionService.ListTransactions(ctx, ownerID, filter, req)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierr.FromService(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(page.Items))
		logData.AddData("transactionTotal", page.Total)
	}

	resp := ListTransactionsResponseBody{
		Items: make([]Transaction, len(page.Items)),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}
	for i := range page.Items {
		resp.Items[i] = fromLedger(&page.Items[i])
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
