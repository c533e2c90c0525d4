package repositories

import (
	"context"
	"database/sql"
)

// Tx is the explicit unit-of-work handle threaded through mutating core
// operations. *sql.Tx satisfies it.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner opens a transaction per external operation call. Services own
// the begin/commit/rollback cycle; repositories only receive the handle.
type TxBeginner interface {
	Begin(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type dbTxBeginner struct {
	db *sql.DB
}

func NewTxBeginner(db *sql.DB) TxBeginner {
	return dbTxBeginner{db: db}
}

func (b dbTxBeginner) Begin(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return b.db.BeginTx(ctx, opts)
}
