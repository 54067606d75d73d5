package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// invitationRepo implementa repository.InvitationRepository sobre MySQL.
// Una invitación aceptada es inmutable: update/delete retornan ErrImmutable.
type invitationRepo struct {
	db *sql.DB
}

const invitationColumns = `id, email, role, accepted, accepted_at, created_by, owner_id, created_at, updated_at`

func scanInvitation(row rowScanner) (*repository.Invitation, error) {
	var (
		id int64
		in repository.Invitation
	)
	err := row.Scan(&id, &in.Email, &in.Role, &in.Accepted, &in.AcceptedAt,
		&in.CreatedBy, &in.OwnerID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan invitation: %w", err)
	}
	in.ID = formatID(id)
	return &in, nil
}

func (r *invitationRepo) Create(ctx context.Context, input repository.CreateInvitationInput) (*repository.Invitation, error) {
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO invitation (email, role, created_by, owner_id) VALUES (?, ?, ?, ?)`,
		input.Email, input.Role, input.CreatedBy, ownerID)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert invitation id: %w", err)
	}
	return r.FindByID(ctx, formatID(id))
}

func (r *invitationRepo) FindByID(ctx context.Context, id string) (*repository.Invitation, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitation WHERE id = ?`, pk)
	return scanInvitation(row)
}

func (r *invitationRepo) FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitation WHERE id = ? AND owner_id = ?`, pk, ownerID)
	return scanInvitation(row)
}

func (r *invitationRepo) FindByEmail(ctx context.Context, email string) (*repository.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitation WHERE email = ?`, email)
	return scanInvitation(row)
}

// filterClause arma el WHERE a partir del filtro. Punteros nil no filtran.
func filterClause(filter repository.InvitationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		conds = append(conds, col+" = ?")
		args = append(args, v)
	}
	if filter.Email != nil {
		add("email", *filter.Email)
	}
	if filter.Role != nil {
		add("role", *filter.Role)
	}
	if filter.Accepted != nil {
		add("accepted", *filter.Accepted)
	}
	if filter.CreatedBy != nil {
		add("created_by", *filter.CreatedBy)
	}
	if filter.OwnerID != nil {
		add("owner_id", *filter.OwnerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *invitationRepo) FindAll(ctx context.Context, filter repository.InvitationFilter) ([]repository.Invitation, error) {
	where, args := filterClause(filter)
	q := `SELECT ` + invitationColumns + ` FROM invitation` + where + ` ORDER BY id`
	if filter.Page != nil && filter.Limit != nil {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, *filter.Limit, (*filter.Page-1)*(*filter.Limit))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find invitations: %w", err)
	}
	defer rows.Close()

	out := []repository.Invitation{}
	for rows.Next() {
		in, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (r *invitationRepo) Count(ctx context.Context, filter repository.InvitationFilter) (int64, error) {
	where, args := filterClause(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitation`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count invitations: %w", err)
	}
	return total, nil
}

func (r *invitationRepo) Update(ctx context.Context, id string, input repository.UpdateInvitationInput) (*repository.Invitation, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Accepted {
		return nil, repository.ErrImmutable
	}
	pk, _ := parseID(id)

	sets := []string{"updated_at = NOW()"}
	var args []any
	if input.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *input.Role)
	}
	if input.Accepted != nil && *input.Accepted {
		at := input.AcceptedAt
		if at == nil {
			now := time.Now().UTC()
			at = &now
		}
		sets = append(sets, "accepted = TRUE", "accepted_at = ?")
		args = append(args, *at)
	}
	args = append(args, pk)

	if _, err := r.db.ExecContext(ctx,
		`UPDATE invitation SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *invitationRepo) Delete(ctx context.Context, id string) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Accepted {
		return repository.ErrImmutable
	}
	pk, _ := parseID(id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitation WHERE id = ?`, pk)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return notFoundIfZero(res)
}

// HardDeleteByCreator elimina las invitaciones del creador sin importar si
// fueron aceptadas: la cascada de borrado de cuenta pasa por encima de la
// inmutabilidad.
func (r *invitationRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitation WHERE created_by = ?`, userID)
	if err != nil {
		return fmt.Errorf("hard delete invitations by creator: %w", err)
	}
	return nil
}
