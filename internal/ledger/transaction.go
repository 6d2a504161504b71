// Package ledger holds the transaction model and the pure query and aggregation engines
// that run over one owner's transactions.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/dates"
)

// Category is the closed set of spending categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryBills         Category = "Bills"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryBills,
	CategoryTravel,
	CategoryShopping,
	CategoryEntertainment,
	CategoryOther,
}

// Kind separates money going out from money coming in.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Settlement records whether a transaction has been paid.
type Settlement string

const (
	SettlementPaid    Settlement = "paid"
	SettlementPending Settlement = "pending"
)

var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidSettlement = errors.New("invalid settlement")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrEmptyTitle        = errors.New("title is required")
	ErrTitleTooShort     = errors.New("title is too short")
	ErrInvalidDate       = errors.New("invalid date")
	ErrMissingOwner      = errors.New("owner is required")
)

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (s Settlement) Valid() bool {
	return s == SettlementPaid || s == SettlementPending
}

// ParseCategory validates a category name. Matching is exact, as stored.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ParseKind validates a kind, defaulting an empty value to expense.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindExpense, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// ParseSettlement validates a settlement, defaulting an empty value to pending.
func ParseSettlement(s string) (Settlement, error) {
	if s == "" {
		return SettlementPending, nil
	}
	st := Settlement(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSettlement, s)
	}
	return st, nil
}

// MinTitleLength is the shortest accepted title, in characters.
const MinTitleLength = 2

// Transaction is a single expense or income record owned by one user.
type Transaction struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Title      string
	Amount     decimal.Decimal
	Category   Category
	Kind       Kind
	Settlement Settlement
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Seq is the storage insertion sequence, used to keep ordering stable on equal dates.
	Seq int64
}

// Day returns the normalized calendar day of the transaction.
func (t Transaction) Day() dates.Day {
	return dates.FromTime(t.Date)
}

// Fields are the mutable fields of a transaction, replaced wholesale on update.
type Fields struct {
	Title      string
	Amount     decimal.Decimal
	Category   Category
	Kind       Kind
	Settlement Settlement
	Date       dates.Day
	Notes      string
}

// Validate checks the write-side invariants.
func (f Fields) Validate() error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) < MinTitleLength {
		return ErrTitleTooShort
	}
	if !f.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, f.Kind)
	}
	if !f.Settlement.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSettlement, f.Settlement)
	}
	if !f.Date.Valid() {
		return ErrInvalidDate
	}
	return nil
}
