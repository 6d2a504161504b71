package memory

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

func fixedNow() time.Time {
	return time.Date(2025, 11, 18, 9, 30, 0, 0, time.UTC)
}

func fields(title, category, kind, settlement, date string) sqlconfig.TransactionFields {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return sqlconfig.TransactionFields{
		Title:      title,
		Amount:     decimal.RequireFromString("9.99"),
		Category:   category,
		Kind:       kind,
		Settlement: settlement,
		Date:       d,
	}
}

func seed(t *testing.T, table *TransactionsTable, owner uuid.UUID) []*sqlconfig.Transaction {
	t.Helper()
	inputs := []sqlconfig.TransactionFields{
		fields("Groceries", "Food", "expense", "paid", "2025-11-01"),
		fields("Electricity", "Bills", "expense", "pending", "2025-11-03"),
		fields("Salary", "Other", "income", "paid", "2025-11-05"),
		fields("Dinner out", "Food", "expense", "paid", "2025-11-05"),
		fields("Train", "Travel", "expense", "pending", "2025-11-07"),
		fields("Lunch", "Food", "expense", "pending", "2025-11-10"),
		fields("100% juice_bar", "Food", "expense", "paid", "2025-11-02"),
	}
	var rows []*sqlconfig.Transaction
	for _, in := range inputs {
		row, err := table.Insert(context.Background(), &sqlconfig.TransactionCreate{OwnerID: owner, TransactionFields: in})
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func toLedger(rows []*sqlconfig.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(rows))
	for i, r := range rows {
		out[i] = ledger.Transaction{
			ID:         r.ID,
			OwnerID:    r.OwnerID,
			Title:      r.Title,
			Amount:     r.Amount,
			Category:   ledger.Category(r.Category),
			Kind:       ledger.Kind(r.Kind),
			Settlement: ledger.Settlement(r.Settlement),
			Date:       r.Date,
			Seq:        r.Seq,
		}
	}
	return out
}

func TestTransactionsTable_InsertAssignsIdentity(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner := uuid.Must(uuid.NewV4())

	rows := seed(t, table, owner)

	assert.NotEqual(t, uuid.Nil, rows[0].ID)
	assert.Equal(t, int64(1), rows[0].Seq)
	assert.Equal(t, int64(2), rows[1].Seq)
	assert.Equal(t, fixedNow(), rows[0].CreatedAt)
}

func TestTransactionsTable_MatchesQueryEngine(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner, other := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	rows := append(seed(t, table, owner), seed(t, table, other)...)
	reference := toLedger(rows)

	filters := []sqlconfig.TransactionFilter{
		{},
		{Category: "Food"},
		{Category: "Food", Settlement: "paid"},
		{Kind: "income"},
		{TitleContains: "IN"},
		{TitleContains: "%"},
		{TitleContains: "_bar"},
		{Category: "Groceries"},
	}
	for _, f := range filters {
		for _, limit := range []int{1, 2, 3, 10} {
			for page := 1; page <= 4; page++ {
				t.Run(fmt.Sprintf("%+v/limit=%d/page=%d", f, limit, page), func(t *testing.T) {
					filter := f
					filter.OwnerID = owner
					filter.Limit = limit
					filter.Offset = (page - 1) * limit

					got, err := table.List(context.Background(), &filter)
					require.NoError(t, err)
					count, err := table.Count(context.Background(), &filter)
					require.NoError(t, err)

					want := ledger.Query(reference, owner, ledger.Filter{
						Category:      ledger.Category(f.Category),
						Settlement:    ledger.Settlement(f.Settlement),
						Kind:          ledger.Kind(f.Kind),
						TitleContains: f.TitleContains,
					}, ledger.PageRequest{Page: page, Limit: limit})

					assert.Equal(t, want.Total, count)
					require.Len(t, got, len(want.Items))
					for i := range got {
						assert.Equal(t, want.Items[i].ID, got[i].ID)
					}
				})
			}
		}
	}
}

func TestTransactionsTable_ListWithoutLimitReturnsAll(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner := uuid.Must(uuid.NewV4())
	seed(t, table, owner)

	got, err := table.List(context.Background(), &sqlconfig.TransactionFilter{OwnerID: owner})

	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, "Lunch", got[0].Title)
	// Salary and Dinner out share a date and keep insertion order.
	assert.Equal(t, "Salary", got[2].Title)
	assert.Equal(t, "Dinner out", got[3].Title)
}

func TestTransactionsTable_OffsetOutOfRange(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner := uuid.Must(uuid.NewV4())
	seed(t, table, owner)

	for _, offset := range []int{-4, 7, math.MaxInt} {
		got, err := table.List(context.Background(), &sqlconfig.TransactionFilter{OwnerID: owner, Limit: 4, Offset: offset})
		require.NoError(t, err)
		assert.Empty(t, got, "offset %d", offset)
	}
}

func TestTransactionsTable_RequiresOwner(t *testing.T) {
	table := NewTransactionsTable(fixedNow)

	_, err := table.List(context.Background(), &sqlconfig.TransactionFilter{})
	assert.Error(t, err)
	_, err = table.Count(context.Background(), nil)
	assert.Error(t, err)
}

func TestTransactionsTable_OwnerScoping(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner, other := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	rows := seed(t, table, owner)
	id := rows[0].ID

	_, err := table.FindByID(context.Background(), other, id)
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)

	update := fields("Hacked", "Other", "income", "paid", "2025-01-01")
	_, err = table.Update(context.Background(), other, id, &update)
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)

	assert.ErrorIs(t, table.Delete(context.Background(), other, id), sqlconfig.ErrNotFound)

	found, err := table.FindByID(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", found.Title)
}

func TestTransactionsTable_UpdateReplacesFields(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner := uuid.Must(uuid.NewV4())
	rows := seed(t, table, owner)

	update := fields("Weekly shop", "Shopping", "expense", "pending", "2025-11-11")
	update.Date = update.Date.Add(15 * time.Hour)
	got, err := table.Update(context.Background(), owner, rows[0].ID, &update)

	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", got.Title)
	assert.Equal(t, "Shopping", got.Category)
	assert.Equal(t, "pending", got.Settlement)
	assert.Equal(t, time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, rows[0].Seq, got.Seq)
	assert.Equal(t, rows[0].CreatedAt, got.CreatedAt)
}

func TestTransactionsTable_Delete(t *testing.T) {
	table := NewTransactionsTable(fixedNow)
	owner := uuid.Must(uuid.NewV4())
	rows := seed(t, table, owner)

	require.NoError(t, table.Delete(context.Background(), owner, rows[2].ID))

	count, err := table.Count(context.Background(), &sqlconfig.TransactionFilter{OwnerID: owner})
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	_, err = table.FindByID(context.Background(), owner, rows[2].ID)
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
	assert.ErrorIs(t, table.Delete(context.Background(), owner, rows[2].ID), sqlconfig.ErrNotFound)
}

func TestUsersTable(t *testing.T) {
	table := NewUsersTable(fixedNow)
	ctx := context.Background()

	user, err := table.Insert(ctx, &sqlconfig.UserCreate{Name: "Ada", Email: "Ada@Example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = table.Insert(ctx, &sqlconfig.UserCreate{Name: "Other", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, sqlconfig.ErrDuplicate)

	found, err := table.FindByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	updated, err := table.Update(ctx, user.ID, &sqlconfig.UserUpdate{Name: "Ada L.", AvatarURL: "https://example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "Ada@Example.com", updated.Email)

	byID, err := table.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", byID.AvatarURL)

	_, err = table.FindByID(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
	_, err = table.Update(ctx, uuid.Must(uuid.NewV4()), &sqlconfig.UserUpdate{Name: "x"})
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
}
