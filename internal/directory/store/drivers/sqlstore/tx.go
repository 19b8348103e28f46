package sqlstore

import (
	"context"
	"database/sql"

	"github.com/openferp/directory/internal/directory/store"
)

type txStore struct {
	tx      *sql.Tx
	dialect Dialect
	q       *conn
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{
		tx:      tx,
		dialect: d,
		q:       &conn{db: tx, dialect: d},
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the outer pool stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op; the connection is held by the transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Reset(ctx context.Context) error { return sql.ErrTxDone }

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Enterprises() store.Enterprises { return &enterprisesRepo{q: t.q} }
func (t *txStore) Roles() store.Roles             { return &rolesRepo{q: t.q} }
func (t *txStore) Scopes() store.Scopes           { return &scopesRepo{q: t.q} }
func (t *txStore) Users() store.Users             { return &usersRepo{q: t.q} }
