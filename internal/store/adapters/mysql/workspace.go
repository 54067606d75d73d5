package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// workspaceRepo implementa repository.WorkspaceRepository sobre MySQL.
// El equipo y la ACL se guardan como columnas JSON.
type workspaceRepo struct {
	db *sql.DB
}

const workspaceColumns = `id, owner, name, team, acl, created_at, updated_at`

func scanWorkspace(row rowScanner) (*repository.Workspace, error) {
	var (
		id        int64
		w         repository.Workspace
		team, acl []byte
	)
	if err := row.Scan(&id, &w.Owner, &w.Name, &team, &acl, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	if len(team) > 0 {
		if err := json.Unmarshal(team, &w.Team); err != nil {
			return nil, fmt.Errorf("decode workspace team: %w", err)
		}
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

func encodeTeam(team []string) ([]byte, error) {
	if team == nil {
		team = []string{}
	}
	b, err := json.Marshal(team)
	if err != nil {
		return nil, fmt.Errorf("encode workspace team: %w", err)
	}
	return b, nil
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
	team, err := encodeTeam(input.Team)
	if err != nil {
		return nil, err
	}
	acl, err := encodeACL(input.ACL)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace (owner, name, team, acl) VALUES (?, ?, ?, ?)`,
		input.Owner, input.Name, team, acl)
	if err != nil {
		return nil, fmt.Errorf("insert workspace: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert workspace id: %w", err)
	}
	return r.FindByID(ctx, formatID(id))
}

func (r *workspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspace WHERE id = ?`, pk)
	return scanWorkspace(row)
}

func (r *workspaceRepo) FindByOwner(ctx context.Context, owner string) (*repository.Workspace, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspace WHERE owner = ?`, owner)
	return scanWorkspace(row)
}

func (r *workspaceRepo) FindByTeamUser(ctx context.Context, userID string) ([]repository.Workspace, error) {
	// JSON_CONTAINS busca al usuario dentro del array team.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspace
		 WHERE owner = ? OR JSON_CONTAINS(team, JSON_QUOTE(?)) ORDER BY id`,
		userID, userID)
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
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = NOW()"}
	var args []any
	if input.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *input.Name)
	}
	if input.Team != nil {
		team, err := encodeTeam(*input.Team)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "team = ?")
		args = append(args, team)
	}
	if input.ACL != nil {
		acl, err := encodeACL(*input.ACL)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "acl = ?")
		args = append(args, acl)
	}
	args = append(args, pk)

	if _, err := r.db.ExecContext(ctx,
		`UPDATE workspace SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update workspace: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *workspaceRepo) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspace WHERE id = ?`, pk)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return notFoundIfZero(res)
}

func (r *workspaceRepo) AddTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	w, err := r.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	for _, member := range w.Team {
		if member == userID {
			return w, nil
		}
	}
	team := append(w.Team, userID)
	return r.Update(ctx, workspaceID, repository.UpdateWorkspaceInput{Team: &team})
}

func (r *workspaceRepo) RemoveTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	w, err := r.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	team := make([]string, 0, len(w.Team))
	for _, member := range w.Team {
		if member != userID {
			team = append(team, member)
		}
	}
	if len(team) == len(w.Team) {
		return w, nil
	}
	return r.Update(ctx, workspaceID, repository.UpdateWorkspaceInput{Team: &team})
}
