package service

import (
	"errors"
	"fmt"

	"github.com/carson-networks/expense-server/internal/ledger"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var validationErrors = []error{
	ledger.ErrInvalidCategory,
	ledger.ErrInvalidKind,
	ledger.ErrInvalidSettlement,
	ledger.ErrInvalidAmount,
	ledger.ErrEmptyTitle,
	ledger.ErrTitleTooShort,
	ledger.ErrInvalidDate,
	ledger.ErrMissingOwner,
}

// translateError maps storage and domain errors onto the service sentinels, keeping the
// original error in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return err
}
