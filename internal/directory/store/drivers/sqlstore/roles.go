package sqlstore

import (
	"context"

	"github.com/openferp/directory/internal/directory/domain"
)

type rolesRepo struct {
	q *conn
}

const roleColumns = `id, enterprise_id, name, description, hierarchy`

func scanRole(sc interface{ Scan(...any) error }) (domain.Role, error) {
	var r domain.Role
	err := sc.Scan(&r.ID, &r.EnterpriseID, &r.Name, &r.Description, &r.Rank)
	return r, err
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO roles (`+roleColumns+`) VALUES (?, ?, ?, ?, ?)`,
		role.ID, role.EnterpriseID, role.Name, role.Description, role.Rank,
	)
	return err
}

func (r *rolesRepo) GetRole(ctx context.Context, enterpriseID, id string) (domain.Role, error) {
	role, err := scanRole(r.q.queryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE enterprise_id = ? AND id = ?`, enterpriseID, id,
	))
	if err != nil {
		return domain.Role{}, mapErr(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, enterpriseID, name string) (domain.Role, error) {
	role, err := scanRole(r.q.queryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE enterprise_id = ? AND name = ?`, enterpriseID, name,
	))
	if err != nil {
		return domain.Role{}, mapErr(err)
	}
	return role, nil
}

func (r *rolesRepo) ListRoles(ctx context.Context, enterpriseID string) ([]domain.Role, error) {
	return r.list(ctx, `SELECT `+roleColumns+` FROM roles WHERE enterprise_id = ? ORDER BY hierarchy, name`, enterpriseID)
}

func (r *rolesRepo) ListRolesByIDs(ctx context.Context, enterpriseID string, ids []string) ([]domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := inList(ids)
	return r.list(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE enterprise_id = ? AND id IN `+ph+` ORDER BY hierarchy, name`,
		append([]any{enterpriseID}, args...)...,
	)
}

func (r *rolesRepo) ListRolesByNames(ctx context.Context, enterpriseID string, names []string) ([]domain.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ph, args := inList(names)
	return r.list(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE enterprise_id = ? AND name IN `+ph+` ORDER BY hierarchy, name`,
		append([]any{enterpriseID}, args...)...,
	)
}

func (r *rolesRepo) DeleteRolesByEnterprise(ctx context.Context, enterpriseID string) (int64, error) {
	res, err := r.q.exec(ctx, `DELETE FROM roles WHERE enterprise_id = ?`, enterpriseID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *rolesRepo) list(ctx context.Context, q string, args ...any) ([]domain.Role, error) {
	rows, err := r.q.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
