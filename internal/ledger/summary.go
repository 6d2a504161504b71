package ledger

import "github.com/shopspring/decimal"

// Summary holds the dashboard totals.
type Summary struct {
	TotalExpense decimal.Decimal
	TotalIncome  decimal.Decimal
	Net          decimal.Decimal
}

// Summarize totals expense and income amounts. Every record counts, including records whose
// date cannot be normalized. Anything that is not income counts as expense, as in BucketSeries.
func Summarize(records []Transaction) Summary {
	expense := decimal.Zero
	income := decimal.Zero
	for _, r := range records {
		switch r.Kind {
		case KindIncome:
			income = income.Add(r.Amount)
		default:
			expense = expense.Add(r.Amount)
		}
	}
	return Summary{
		TotalExpense: expense,
		TotalIncome:  income,
		Net:          income.Sub(expense),
	}
}
