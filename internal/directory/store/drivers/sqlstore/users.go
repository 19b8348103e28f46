package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
)

type usersRepo struct {
	q *conn
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO users (id, enterprise_id, role_id, scope_id, username, email, full_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.EnterpriseID, mapStringNull(u.RoleID), mapStringNull(u.ScopeID),
		u.Username, u.Email, u.FullName, u.PasswordHash,
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return err
}

func (r *usersRepo) GetUser(ctx context.Context, enterpriseID, id string) (domain.User, error) {
	var (
		u              domain.User
		roleID, scopID sql.NullString
	)
	err := r.q.queryRow(ctx,
		`SELECT id, enterprise_id, role_id, scope_id, username, email, full_name, password_hash, created_at, updated_at
		FROM users WHERE enterprise_id = ? AND id = ?`, enterpriseID, id,
	).Scan(&u.ID, &u.EnterpriseID, &roleID, &scopID, &u.Username, &u.Email, &u.FullName,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.RoleID = mapNullString(roleID)
	u.ScopeID = mapNullString(scopID)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	return r.q.execOne(ctx,
		`UPDATE users SET role_id = ?, scope_id = ?, username = ?, email = ?, full_name = ?, password_hash = ?, updated_at = ?
		WHERE enterprise_id = ? AND id = ?`,
		mapStringNull(u.RoleID), mapStringNull(u.ScopeID), u.Username, u.Email, u.FullName, u.PasswordHash,
		time.Now().UTC(), u.EnterpriseID, u.ID,
	)
}

func (r *usersRepo) DeleteUser(ctx context.Context, enterpriseID, id string) error {
	return r.q.execOne(ctx, `DELETE FROM users WHERE enterprise_id = ? AND id = ?`, enterpriseID, id)
}

const identitySelect = `SELECT u.id, u.username, u.email, u.full_name, u.created_at, u.enterprise_id,
	r.id, r.name, r.hierarchy,
	s.id, s.name,
	e.id, e.name, e.accountable_email, e.activity_type,
	u.password_hash
FROM users u
JOIN enterprises e ON e.id = u.enterprise_id
LEFT JOIN roles r ON r.id = u.role_id AND r.enterprise_id = u.enterprise_id
LEFT JOIN scopes s ON s.id = u.scope_id AND s.enterprise_id = u.enterprise_id`

func scanIdentity(sc interface{ Scan(...any) error }) (domain.Identity, string, error) {
	var (
		id                domain.Identity
		roleID, roleName  sql.NullString
		roleRank          sql.NullInt64
		scopeID, scopeNme sql.NullString
		hash              string
	)
	err := sc.Scan(
		&id.ID, &id.Username, &id.Email, &id.FullName, &id.CreatedAt, &id.EnterpriseID,
		&roleID, &roleName, &roleRank,
		&scopeID, &scopeNme,
		&id.Enterprise.ID, &id.Enterprise.Name, &id.Enterprise.AccountableEmail, &id.Enterprise.ActivityType,
		&hash,
	)
	if err != nil {
		return domain.Identity{}, "", err
	}
	id.CreatedAt = id.CreatedAt.UTC()
	if roleID.Valid {
		id.Role = &domain.RoleRef{ID: roleID.String, Name: roleName.String, Rank: int(roleRank.Int64)}
	}
	if scopeID.Valid {
		id.Scope = &domain.ScopeRef{ID: scopeID.String, Name: scopeNme.String}
	}
	return id, hash, nil
}

func (r *usersRepo) GetIdentity(ctx context.Context, enterpriseID, id string) (domain.Identity, error) {
	ident, _, err := scanIdentity(r.q.queryRow(ctx,
		identitySelect+` WHERE u.enterprise_id = ? AND u.id = ?`, enterpriseID, id,
	))
	if err != nil {
		return domain.Identity{}, mapErr(err)
	}
	return ident, nil
}

func (r *usersRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, string, error) {
	ident, hash, err := scanIdentity(r.q.queryRow(ctx, identitySelect+` WHERE u.email = ?`, email))
	if err != nil {
		return domain.Identity{}, "", mapErr(err)
	}
	return ident, hash, nil
}

func (r *usersRepo) ListIdentities(
	ctx context.Context,
	enterpriseID string,
	f store.UserFilter,
) ([]domain.Identity, error) {
	var sb strings.Builder
	sb.WriteString(identitySelect)
	sb.WriteString(` WHERE u.enterprise_id = ?`)
	args := []any{enterpriseID}

	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		ph, a := inList(values)
		sb.WriteString(" AND " + column + " IN " + ph)
		args = append(args, a...)
	}
	appendLike := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		clauses := make([]string, len(values))
		for i, v := range values {
			clauses[i] = column + ` LIKE ? ESCAPE '\'`
			args = append(args, "%"+likeEscaper.Replace(v)+"%")
		}
		sb.WriteString(" AND (" + strings.Join(clauses, " OR ") + ")")
	}

	appendIn("u.role_id", f.RoleIDs)
	appendIn("r.name", f.RoleNames)
	appendIn("u.scope_id", f.ScopeIDs)
	appendIn("s.name", f.ScopeNames)
	appendLike("u.username", f.Usernames)
	appendLike("u.email", f.Emails)
	sb.WriteString(" ORDER BY u.created_at, u.id")

	rows, err := r.q.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		ident, _, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *usersRepo) CountOwners(ctx context.Context, enterpriseID string) (int, error) {
	var n int
	err := r.q.queryRow(ctx,
		`SELECT COUNT(*) FROM users u
		JOIN roles r ON r.id = u.role_id AND r.enterprise_id = u.enterprise_id
		JOIN scopes s ON s.id = u.scope_id AND s.enterprise_id = u.enterprise_id
		WHERE u.enterprise_id = ? AND r.hierarchy = ? AND s.name = ?`,
		enterpriseID, domain.RankOwner, domain.ScopeAll,
	).Scan(&n)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (r *usersRepo) ListUserIDs(ctx context.Context, enterpriseID string) ([]string, error) {
	rows, err := r.q.query(ctx, `SELECT id FROM users WHERE enterprise_id = ? ORDER BY id`, enterpriseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
