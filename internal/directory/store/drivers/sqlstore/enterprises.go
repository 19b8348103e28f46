package sqlstore

import (
	"context"
	"strings"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
)

type enterprisesRepo struct {
	q *conn
}

func (r *enterprisesRepo) CreateEnterprise(ctx context.Context, e domain.Enterprise) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO enterprises (id, name, accountable_email, activity_type) VALUES (?, ?, ?, ?)`,
		e.ID, e.Name, e.AccountableEmail, e.ActivityType,
	)
	return err
}

func (r *enterprisesRepo) GetEnterprise(ctx context.Context, id string) (domain.Enterprise, error) {
	var e domain.Enterprise
	err := r.q.queryRow(ctx,
		`SELECT id, name, accountable_email, activity_type FROM enterprises WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.AccountableEmail, &e.ActivityType)
	if err != nil {
		return domain.Enterprise{}, mapErr(err)
	}
	return e, nil
}

func (r *enterprisesRepo) UpdateEnterprise(ctx context.Context, e domain.Enterprise) error {
	return r.q.execOne(ctx,
		`UPDATE enterprises SET name = ?, accountable_email = ?, activity_type = ? WHERE id = ?`,
		e.Name, e.AccountableEmail, e.ActivityType, e.ID,
	)
}

func (r *enterprisesRepo) DeleteEnterprise(ctx context.Context, id string) error {
	return r.q.execOne(ctx, `DELETE FROM enterprises WHERE id = ?`, id)
}

func (r *enterprisesRepo) Hierarchy(
	ctx context.Context,
	enterpriseID string,
	f store.HierarchyFilter,
) ([]domain.HierarchyRow, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT e.id, e.name, e.accountable_email, e.activity_type,
		s.id, s.name, s.description,
		r.id, r.name, r.description, r.hierarchy
	FROM enterprises e
	JOIN scopes s ON s.enterprise_id = e.id
	JOIN roles r ON r.enterprise_id = e.id
	WHERE e.id = ?`)
	args := []any{enterpriseID}

	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		ph, a := inList(values)
		sb.WriteString(" AND " + column + " IN " + ph)
		args = append(args, a...)
	}
	appendIn("r.id", f.RoleIDs)
	appendIn("r.name", f.RoleNames)
	appendIn("s.id", f.ScopeIDs)
	appendIn("s.name", f.ScopeNames)
	sb.WriteString(" ORDER BY r.hierarchy, r.name, s.name")

	rows, err := r.q.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HierarchyRow
	for rows.Next() {
		var row domain.HierarchyRow
		if err := rows.Scan(
			&row.Enterprise.ID, &row.Enterprise.Name, &row.Enterprise.AccountableEmail, &row.Enterprise.ActivityType,
			&row.Scope.ID, &row.Scope.Name, &row.Scope.Description,
			&row.Role.ID, &row.Role.Name, &row.Role.Description, &row.Role.Rank,
		); err != nil {
			return nil, err
		}
		row.Scope.EnterpriseID = row.Enterprise.ID
		row.Role.EnterpriseID = row.Enterprise.ID
		out = append(out, row)
	}
	return out, rows.Err()
}
