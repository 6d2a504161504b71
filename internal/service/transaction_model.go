package service

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

func transactionFromStorage(row *sqlconfig.Transaction) ledger.Transaction {
	return ledger.Transaction{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Title:      row.Title,
		Amount:     row.Amount,
		Category:   ledger.Category(row.Category),
		Kind:       ledger.Kind(row.Kind),
		Settlement: ledger.Settlement(row.Settlement),
		Date:       row.Date,
		Notes:      row.Notes,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		Seq:        row.Seq,
	}
}

func transactionsFromStorage(rows []*sqlconfig.Transaction) []ledger.Transaction {
	converted := make([]ledger.Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}
	return converted
}

func filterToStorage(ownerID uuid.UUID, filter ledger.Filter) sqlconfig.TransactionFilter {
	return sqlconfig.TransactionFilter{
		OwnerID:       ownerID,
		Category:      string(filter.Category),
		Settlement:    string(filter.Settlement),
		Kind:          string(filter.Kind),
		TitleContains: filter.TitleContains,
	}
}
