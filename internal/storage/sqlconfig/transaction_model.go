package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction represents a transaction record.
type Transaction struct {
	ID         uuid.UUID       `db:"id"`
	Seq        int64           `db:"seq"`
	OwnerID    uuid.UUID       `db:"owner_id"`
	Title      string          `db:"title"`
	Amount     decimal.Decimal `db:"amount"`
	Category   string          `db:"category"`
	Kind       string          `db:"kind"`
	Settlement string          `db:"settlement"`
	Date       time.Time       `db:"date"`
	Notes      string          `db:"notes"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	OwnerID uuid.UUID
	TransactionFields
}

// TransactionFields are the mutable columns, written together on insert and update.
type TransactionFields struct {
	Title      string
	Amount     decimal.Decimal
	Category   string
	Kind       string
	Settlement string
	Date       time.Time // only the calendar day is stored
	Notes      string
}

// TransactionFilter specifies filters for listing transactions. Empty strings do not filter;
// a Limit of zero returns every match.
type TransactionFilter struct {
	OwnerID       uuid.UUID
	Category      string
	Settlement    string
	Kind          string
	TitleContains string
	Limit         int
	Offset        int
}

// ITransactionTable defines the interface for transaction storage operations.
// Every lookup is scoped to an owner; rows of other owners behave as missing.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields *TransactionFields) (*Transaction, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	Count(ctx context.Context, filter *TransactionFilter) (int, error)
}
