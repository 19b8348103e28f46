// Package sqlstore implements store.Store on database/sql for SQLite
// (modernc.org/sqlite) and PostgreSQL (pgx). Queries are written once with
// '?' placeholders and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/openferp/directory/internal/directory/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// ParseDialect maps a DATABASE_DRIVER value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return 0, fmt.Errorf("sqlstore: unknown driver %q", s)
	}
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	q       *conn
}

// Open connects using the given dialect. For SQLite, dsn is a modernc DSN
// such as "file:directory.db?_pragma=busy_timeout(5000)" or ":memory:".
func Open(d Dialect, dsn string) (*Store, error) {
	if d == DialectPostgres {
		return NewPostgres(dsn)
	}
	return NewSQLite(dsn)
}

func NewSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}

	// Every pooled connection to ":memory:" is a distinct database.
	if strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewWithDB(db, DialectSQLite), nil
}

// withForeignKeys makes every pooled connection enforce FKs; a one-off
// PRAGMA would only reach the first connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping postgres: %w", err)
	}

	return NewWithDB(db, DialectPostgres), nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB, d Dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		q:       &conn{db: db, dialect: d},
	}
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after Commit is a no-op returning sql.ErrTxDone.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return mapErr(tx.Commit())
}

// Reset wipes all tenant data, children first.
func (s *Store) Reset(ctx context.Context) error {
	return s.WithTx(ctx, func(tx store.Tx) error {
		t := tx.(*txStore)
		for _, table := range []string{"users", "roles", "scopes", "enterprises"} {
			if _, err := t.q.exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) Enterprises() store.Enterprises { return &enterprisesRepo{q: s.q} }
func (s *Store) Roles() store.Roles             { return &rolesRepo{q: s.q} }
func (s *Store) Scopes() store.Scopes           { return &scopesRepo{q: s.q} }
func (s *Store) Users() store.Users             { return &usersRepo{q: s.q} }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn binds a querier to a dialect.
type conn struct {
	db      querier
	dialect Dialect
}

func (c *conn) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	res, err := c.db.ExecContext(ctx, c.dialect.rebind(q), args...)
	return res, mapErr(err)
}

func (c *conn) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.rebind(q), args...)
	return rows, mapErr(err)
}

func (c *conn) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.rebind(q), args...)
}

// execOne runs a statement that must touch exactly one row.
func (c *conn) execOne(ctx context.Context, q string, args ...any) error {
	res, err := c.exec(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// rebind turns '?' placeholders into '$n' for postgres.
func (d Dialect) rebind(q string) string {
	if d != DialectPostgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// mapErr translates driver errors into store sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", store.ErrConflict, se.Error())
		}
		return err
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505", "23503": // unique_violation, foreign_key_violation
			return fmt.Errorf("%w: %s (%s)", store.ErrConflict, pe.Message, pe.ConstraintName)
		}
	}

	return err
}

// inList returns "(?, ?, ...)" for n placeholders and the args as []any.
func inList(values []string) (string, []any) {
	args := make([]any, len(values))
	ph := make([]string, len(values))
	for i, v := range values {
		args[i] = v
		ph[i] = "?"
	}
	return "(" + strings.Join(ph, ", ") + ")", args
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
