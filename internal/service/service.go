package service

import (
	"time"

	"github.com/carson-networks/expense-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Dashboard   *DashboardService
	User        *UserService
}

// NewService creates a new Service. Writes go through op; reads go straight to store.
func NewService(store *storage.Storage, op actionProcessor, tokens tokenIssuer, location *time.Location) *Service {
	return &Service{
		Transaction: NewTransactionService(store, op),
		Dashboard:   NewDashboardService(store, location),
		User:        NewUserService(store, op, tokens),
	}
}
