package sqlconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const transactionsTable = "transactions"

var transactionColumns = []any{
	"id", "seq", "owner_id", "title", "amount", "category", "kind",
	"settlement", "date", "notes", "created_at", "updated_at",
}

var errMissingOwner = errors.New("transaction filter requires an owner")

var _ ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable provides access to the transactions table. The executor may be the
// database or an open transaction.
type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves one of the owner's transactions by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Insert creates a new transaction and returns the stored row.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	f := create.TransactionFields
	q := psql.Insert(
		im.Into(transactionsTable, "id", "owner_id", "title", "amount", "category", "kind", "settlement", "date", "notes"),
		im.Values(psql.Arg(id, create.OwnerID, f.Title, f.Amount, f.Category, f.Kind, f.Settlement, dateArg(f.Date), f.Notes)),
		im.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Update replaces every mutable column of one of the owner's transactions.
func (t *TransactionsTable) Update(ctx context.Context, ownerID, id uuid.UUID, fields *TransactionFields) (*Transaction, error) {
	q := psql.Update(
		um.Table(transactionsTable),
		um.SetCol("title").ToArg(fields.Title),
		um.SetCol("amount").ToArg(fields.Amount),
		um.SetCol("category").ToArg(fields.Category),
		um.SetCol("kind").ToArg(fields.Kind),
		um.SetCol("settlement").ToArg(fields.Settlement),
		um.SetCol("date").ToArg(dateArg(fields.Date)),
		um.SetCol("notes").ToArg(fields.Notes),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		um.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// Delete removes one of the owner's transactions.
func (t *TransactionsTable) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(transactionsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the owner's transactions matching the filter, newest date first. Rows on the
// same date keep insertion order.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	if filter == nil || filter.OwnerID == uuid.Nil {
		return nil, errMissingOwner
	}

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
	}
	for _, cond := range transactionConditions(filter) {
		queryMods = append(queryMods, sm.Where(cond))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("seq")).Asc(),
	)
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// Count returns the number of the owner's transactions matching the filter, ignoring Limit
// and Offset.
func (t *TransactionsTable) Count(ctx context.Context, filter *TransactionFilter) (int, error) {
	if filter == nil || filter.OwnerID == uuid.Nil {
		return 0, errMissingOwner
	}

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("count(*)"),
		sm.From(transactionsTable),
	}
	for _, cond := range transactionConditions(filter) {
		queryMods = append(queryMods, sm.Where(cond))
	}

	count, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(count), nil
}

func transactionConditions(filter *TransactionFilter) []bob.Expression {
	conds := []bob.Expression{psql.Quote("owner_id").EQ(psql.Arg(filter.OwnerID))}
	if filter.Category != "" {
		conds = append(conds, psql.Quote("category").EQ(psql.Arg(filter.Category)))
	}
	if filter.Settlement != "" {
		conds = append(conds, psql.Quote("settlement").EQ(psql.Arg(filter.Settlement)))
	}
	if filter.Kind != "" {
		conds = append(conds, psql.Quote("kind").EQ(psql.Arg(filter.Kind)))
	}
	if filter.TitleContains != "" {
		conds = append(conds, psql.Raw("title ILIKE ?", "%"+escapeLike(filter.TitleContains)+"%"))
	}
	return conds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a substring match literal under LIKE's default backslash escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// dateArg sends only the calendar day so the session time zone cannot shift it.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}
