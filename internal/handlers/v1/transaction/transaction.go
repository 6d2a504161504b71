package transaction

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/dates"
	"github.com/carson-networks/expense-server/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID         string `json:"id" doc:"Transaction UUID"`
	Title      string `json:"title" doc:"Short description"`
	Amount     string `json:"amount" doc:"Decimal amount, always positive"`
	Category   string `json:"category" doc:"Spending category"`
	Kind       string `json:"kind" doc:"expense or income"`
	Settlement string `json:"settlement" doc:"paid or pending"`
	Date       string `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	Notes      string `json:"notes" doc:"Free-form notes"`
	CreatedAt  string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt  string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// TransactionBody is the request body for creating or replacing a transaction.
type TransactionBody struct {
	Title      string `json:"title" minLength:"2" maxLength:"200" doc:"Short description"`
	Amount     string `json:"amount" doc:"Positive decimal amount, e.g. 12.50"`
	Category   string `json:"category" enum:"Food,Bills,Travel,Shopping,Entertainment,Other" doc:"Spending category"`
	Kind       string `json:"kind,omitempty" enum:"expense,income" doc:"Defaults to expense"`
	Settlement string `json:"settlement,omitempty" enum:"paid,pending" doc:"Defaults to pending"`
	Date       string `json:"date" doc:"Calendar date; YYYY-MM-DD preferred, DD-MM-YYYY and common timestamp formats accepted"`
	Notes      string `json:"notes,omitempty" maxLength:"1000" doc:"Free-form notes"`
}

func fromLedger(tx *ledger.Transaction) Transaction {
	return Transaction{
		ID:         tx.ID.String(),
		Title:      tx.Title,
		Amount:     tx.Amount.String(),
		Category:   string(tx.Category),
		Kind:       string(tx.Kind),
		Settlement: string(tx.Settlement),
		Date:       tx.Day().ISO(),
		Notes:      tx.Notes,
		CreatedAt:  tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  tx.UpdatedAt.Format(time.RFC3339),
	}
}

// parseTransactionBody converts the request body into validated domain fields.
func parseTransactionBody(body *TransactionBody) (ledger.Fields, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	category, err := ledger.ParseCategory(body.Category)
	if err != nil {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, "invalid category", err)
	}
	kind, err := ledger.ParseKind(body.Kind)
	if err != nil {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, "invalid kind", err)
	}
	settlement, err := ledger.ParseSettlement(body.Settlement)
	if err != nil {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, "invalid settlement", err)
	}
	date := dates.Parse(body.Date)
	if !date.Valid() {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, "invalid date", ledger.ErrInvalidDate)
	}

	fields := ledger.Fields{
		Title:      body.Title,
		Amount:     amount,
		Category:   category,
		Kind:       kind,
		Settlement: settlement,
		Date:       date,
		Notes:      body.Notes,
	}
	if err := fields.Validate(); err != nil {
		return ledger.Fields{}, huma.NewError(http.StatusBadRequest, err.Error(), err)
	}
	return fields, nil
}
