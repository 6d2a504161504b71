package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// Reader groups the tables reachable through one executor.
type Reader struct {
	Transactions sqlconfig.ITransactionTable
	Users        sqlconfig.IUserTable
}

func NewReader(exec bob.Executor) Reader {
	return Reader{
		Transactions: sqlconfig.NewTransactionsTable(exec),
		Users:        sqlconfig.NewUsersTable(exec),
	}
}
