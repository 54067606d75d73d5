package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// workspaceRepo implementa repository.WorkspaceRepository sobre PostgreSQL.
// El equipo se guarda como text[] y la ACL como jsonb.
type workspaceRepo struct {
	pool *pgxpool.Pool
}

const workspaceColumns = `id, owner, name, team, acl, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*repository.Workspace, error) {
	var (
		id  int64
		w   repository.Workspace
		acl []byte
	)
	if err := row.Scan(&id, &w.Owner, &w.Name, &w.Team, &acl, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	if len(acl) > 0 {
		if err := json.Unmarshal(acl, &w.ACL); err != nil {
			return nil, fmt.Errorf("decode workspace acl: %w", err)
		}
	}
	if w.Team == nil {
		w.Team = []string{}
	}
	if w.ACL == nil {
		w.ACL = []repository.ACLEntry{}
	}
	w.ID = formatID(id)
	return &w, nil
}

func encodeACL(acl []repository.ACLEntry) ([]byte, error) {
	if acl == nil {
		acl = []repository.ACLEntry{}
	}
	b, err := json.Marshal(acl)
	if err != nil {
		return nil, fmt.Errorf("encode workspace acl: %w", err)
	}
	return b, nil
}

func (r *workspaceRepo) Create(ctx context.Context, input repository.CreateWorkspaceInput) (*repository.Workspace, error) {
	acl, err := encodeACL(input.ACL)
	if err != nil {
		return nil, err
	}
	team := input.Team
	if team == nil {
		team = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workspace (owner, name, team, acl)
		VALUES ($1, $2, $3, $4)
		RETURNING `+workspaceColumns,
		input.Owner, input.Name, team, acl)
	return scanWorkspace(row)
}

func (r *workspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspace WHERE id = $1`, pk)
	return scanWorkspace(row)
}

func (r *workspaceRepo) FindByOwner(ctx context.Context, owner string) (*repository.Workspace, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspace WHERE owner = $1`, owner)
	return scanWorkspace(row)
}

func (r *workspaceRepo) FindByTeamUser(ctx context.Context, userID string) ([]repository.Workspace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workspaceColumns+` FROM workspace WHERE owner = $1 OR $1 = ANY(team) ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("find workspaces by team user: %w", err)
	}
	defer rows.Close()

	out := []repository.Workspace{}
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *workspaceRepo) Update(ctx context.Context, id string, input repository.UpdateWorkspaceInput) (*repository.Workspace, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{pk}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Team != nil {
		add("team", *input.Team)
	}
	if input.ACL != nil {
		acl, err := encodeACL(*input.ACL)
		if err != nil {
			return nil, err
		}
		add("acl", acl)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE workspace SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+workspaceColumns,
		args...)
	return scanWorkspace(row)
}

func (r *workspaceRepo) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM workspace WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workspaceRepo) AddTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	pk, err := parseID(workspaceID)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE workspace
		SET team = array_append(team, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(team))
		RETURNING `+workspaceColumns,
		pk, userID)
	w, err := scanWorkspace(row)
	if errors.Is(err, repository.ErrNotFound) {
		// O no existe, o el usuario ya estaba: releer distingue ambos casos.
		return r.FindByID(ctx, workspaceID)
	}
	return w, err
}

func (r *workspaceRepo) RemoveTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	pk, err := parseID(workspaceID)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE workspace
		SET team = array_remove(team, $2), updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		pk, userID)
	return scanWorkspace(row)
}
