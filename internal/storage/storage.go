package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/storage/memory"
)

// Storage is the record store. Reads go through the embedded Reader; writes go through
// Write, which opens a transaction when the backend supports one.
type Storage struct {
	Reader

	DB    *sql.DB
	begin func(ctx context.Context) (*Writer, error)
}

// NewStorage builds a Postgres-backed Storage over an open database.
func NewStorage(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		Reader: NewReader(bobDB),
		DB:     db,
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := bobDB.BeginTx(ctx, nil)
			if err != nil {
				return nil, fmt.Errorf("begin transaction: %w", err)
			}
			return NewWriter(tx), nil
		},
	}
}

// NewMemoryStorage builds a Storage kept entirely in process memory.
func NewMemoryStorage() *Storage {
	return &Storage{
		Reader: Reader{
			Transactions: memory.NewTransactionsTable(time.Now),
			Users:        memory.NewUsersTable(time.Now),
		},
	}
}

// Write returns a Writer for one unit of work. Backends without transactions write through
// directly.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	if s.begin == nil {
		return newDirectWriter(s.Reader), nil
	}
	return s.begin(ctx)
}

// Close releases the database, if any.
func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Connect opens the Postgres database and waits for it to accept connections, retrying
// DBConnectRetries times DBConnectBackoff apart.
func Connect(ctx context.Context, env *config.Config, logger *logrus.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(env.DBConnectBackoff), uint64(env.DBConnectRetries)),
		ctx,
	)
	ping := func() error {
		return db.PingContext(ctx)
	}
	notify := func(err error, next time.Duration) {
		logger.WithError(err).WithField("retryIn", next.String()).Warn("Storage.Connect.retrying")
	}

	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres at %s:%s: %w", env.PostgresAddress, env.PostgresPort, err)
	}
	return db, nil
}
