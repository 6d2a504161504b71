package storage

import (
	"context"

	"github.com/stephenafamo/bob"
)

// Writer exposes the tables bound to one write transaction.
type Writer struct {
	Reader
	commit   func() error
	rollback func() error
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		Reader:   NewReader(tx),
		commit:   func() error { return tx.Commit(context.Background()) },
		rollback: func() error { return tx.Rollback(context.Background()) },
	}
}

// newDirectWriter writes straight through the given tables. Commit and Rollback do nothing.
func newDirectWriter(r Reader) *Writer {
	noop := func() error { return nil }
	return &Writer{Reader: r, commit: noop, rollback: noop}
}

func (w *Writer) Commit() error {
	return w.commit()
}

func (w *Writer) Rollback() error {
	return w.rollback()
}
