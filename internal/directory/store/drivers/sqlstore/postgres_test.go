package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewWithDB(db, DialectPostgres), mock
}

func TestRebind(t *testing.T) {
	t.Parallel()

	q := `SELECT a FROM t WHERE x = ? AND y IN (?, ?)`
	require.Equal(t, q, DialectSQLite.rebind(q))
	require.Equal(t, `SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)`, DialectPostgres.rebind(q))
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Dialect{
		"":           DialectSQLite,
		"sqlite":     DialectSQLite,
		"Postgres":   DialectPostgres,
		"postgresql": DialectPostgres,
		"pgx":        DialectPostgres,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseDialect("mysql")
	require.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, ":memory:?_pragma=foreign_keys(1)", withForeignKeys(":memory:"))
	require.Equal(t, "file:x.db?mode=rwc&_pragma=foreign_keys(1)", withForeignKeys("file:x.db?mode=rwc"))
	require.Equal(t, "file:x.db?_pragma=foreign_keys(0)", withForeignKeys("file:x.db?_pragma=foreign_keys(0)"))
}

func TestPostgresUniqueViolationIsConflict(t *testing.T) {
	t.Parallel()
	st, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO roles (id, enterprise_id, name, description, hierarchy) VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs("r1", "e1", domain.RoleOwner, "", domain.RankOwner).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key", ConstraintName: "roles_enterprise_id_name_key"})

	err := st.Roles().CreateRole(context.Background(), domain.Role{
		ID: "r1", EnterpriseID: "e1", Name: domain.RoleOwner, Rank: domain.RankOwner,
	})
	require.ErrorIs(t, err, store.ErrConflict)
	require.Contains(t, err.Error(), "roles_enterprise_id_name_key")
}

func TestPostgresForeignKeyViolationIsConflict(t *testing.T) {
	t.Parallel()
	st, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enterprises WHERE id = $1`)).
		WithArgs("e1").
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "still referenced"})

	require.ErrorIs(t, st.Enterprises().DeleteEnterprise(context.Background(), "e1"), store.ErrConflict)
}

func TestPostgresNoRowsIsNotFound(t *testing.T) {
	t.Parallel()
	st, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enterprises WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "accountable_email", "activity_type"}))

	_, err := st.Enterprises().GetEnterprise(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE enterprise_id = $1 AND id = $2`)).
		WithArgs("e1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, st.Users().DeleteUser(context.Background(), "e1", "u1"), store.ErrNotFound)
}

func TestPostgresOtherErrorsPassThrough(t *testing.T) {
	t.Parallel()
	st, mock := newMockPostgres(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM roles WHERE enterprise_id = $1 ORDER BY hierarchy, name`)).
		WithArgs("e1").
		WillReturnError(boom)

	_, err := st.Roles().ListRoles(context.Background(), "e1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, store.ErrConflict)
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	t.Parallel()
	st, mock := newMockPostgres(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enterprises SET`)).
		WithArgs("Acme", "a@acme.test", "retail", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Enterprises().UpdateEnterprise(ctx, domain.Enterprise{
			ID: "e1", Name: "Acme", AccountableEmail: "a@acme.test", ActivityType: "retail",
		})
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = st.WithTx(ctx, func(tx store.Tx) error { return sql.ErrConnDone })
	require.ErrorIs(t, err, sql.ErrConnDone)
}
