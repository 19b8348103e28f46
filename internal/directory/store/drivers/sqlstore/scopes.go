package sqlstore

import (
	"context"

	"github.com/openferp/directory/internal/directory/domain"
)

type scopesRepo struct {
	q *conn
}

const scopeColumns = `id, enterprise_id, name, description`

func scanScope(sc interface{ Scan(...any) error }) (domain.Scope, error) {
	var s domain.Scope
	err := sc.Scan(&s.ID, &s.EnterpriseID, &s.Name, &s.Description)
	return s, err
}

func (r *scopesRepo) CreateScope(ctx context.Context, s domain.Scope) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO scopes (`+scopeColumns+`) VALUES (?, ?, ?, ?)`,
		s.ID, s.EnterpriseID, s.Name, s.Description,
	)
	return err
}

func (r *scopesRepo) GetScope(ctx context.Context, enterpriseID, id string) (domain.Scope, error) {
	s, err := scanScope(r.q.queryRow(ctx,
		`SELECT `+scopeColumns+` FROM scopes WHERE enterprise_id = ? AND id = ?`, enterpriseID, id,
	))
	if err != nil {
		return domain.Scope{}, mapErr(err)
	}
	return s, nil
}

func (r *scopesRepo) GetScopeByName(ctx context.Context, enterpriseID, name string) (domain.Scope, error) {
	s, err := scanScope(r.q.queryRow(ctx,
		`SELECT `+scopeColumns+` FROM scopes WHERE enterprise_id = ? AND name = ?`, enterpriseID, name,
	))
	if err != nil {
		return domain.Scope{}, mapErr(err)
	}
	return s, nil
}

func (r *scopesRepo) ListScopes(ctx context.Context, enterpriseID string) ([]domain.Scope, error) {
	return r.list(ctx, `SELECT `+scopeColumns+` FROM scopes WHERE enterprise_id = ? ORDER BY name`, enterpriseID)
}

func (r *scopesRepo) ListScopesByIDs(ctx context.Context, enterpriseID string, ids []string) ([]domain.Scope, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := inList(ids)
	return r.list(ctx,
		`SELECT `+scopeColumns+` FROM scopes WHERE enterprise_id = ? AND id IN `+ph+` ORDER BY name`,
		append([]any{enterpriseID}, args...)...,
	)
}

func (r *scopesRepo) ListScopesByNames(ctx context.Context, enterpriseID string, names []string) ([]domain.Scope, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ph, args := inList(names)
	return r.list(ctx,
		`SELECT `+scopeColumns+` FROM scopes WHERE enterprise_id = ? AND name IN `+ph+` ORDER BY name`,
		append([]any{enterpriseID}, args...)...,
	)
}

func (r *scopesRepo) DeleteScopesByEnterprise(ctx context.Context, enterpriseID string) (int64, error) {
	res, err := r.q.exec(ctx, `DELETE FROM scopes WHERE enterprise_id = ?`, enterpriseID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *scopesRepo) list(ctx context.Context, q string, args ...any) ([]domain.Scope, error) {
	rows, err := r.q.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scopes []domain.Scope
	for rows.Next() {
		s, err := scanScope(rows)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, rows.Err()
}
