package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// invitationRepo implementa repository.InvitationRepository sobre PostgreSQL.
// Una invitación aceptada es inmutable: update/delete retornan ErrImmutable.
type invitationRepo struct {
	pool *pgxpool.Pool
}

const invitationColumns = `id, email, role, accepted, accepted_at, created_by, owner_id, created_at, updated_at`

func scanInvitation(row pgx.Row) (*repository.Invitation, error) {
	var (
		id int64
		in repository.Invitation
	)
	err := row.Scan(&id, &in.Email, &in.Role, &in.Accepted, &in.AcceptedAt,
		&in.CreatedBy, &in.OwnerID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invitation (email, role, created_by, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+invitationColumns,
		input.Email, input.Role, input.CreatedBy, ownerID)
	return scanInvitation(row)
}

func (r *invitationRepo) FindByID(ctx context.Context, id string) (*repository.Invitation, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitation WHERE id = $1`, pk)
	return scanInvitation(row)
}

func (r *invitationRepo) FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitation WHERE id = $1 AND owner_id = $2`, pk, ownerID)
	return scanInvitation(row)
}

func (r *invitationRepo) FindByEmail(ctx context.Context, email string) (*repository.Invitation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitation WHERE email = $1`, email)
	return scanInvitation(row)
}

// filterClause arma el WHERE a partir del filtro. Punteros nil no filtran.
func filterClause(filter repository.InvitationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
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
		args = append(args, *filter.Limit, (*filter.Page-1)*(*filter.Limit))
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
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
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM invitation`+where, args...).Scan(&total); err != nil {
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

	sets := []string{"updated_at = now()"}
	args := []any{pk}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Role != nil {
		add("role", *input.Role)
	}
	if input.Accepted != nil && *input.Accepted {
		add("accepted", true)
		at := input.AcceptedAt
		if at == nil {
			now := time.Now().UTC()
			at = &now
		}
		add("accepted_at", *at)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE invitation SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+invitationColumns,
		args...)
	return scanInvitation(row)
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM invitation WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HardDeleteByCreator elimina las invitaciones del creador sin importar si
// fueron aceptadas: la cascada de borrado de cuenta pasa por encima de la
// inmutabilidad.
func (r *invitationRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invitation WHERE created_by = $1`, userID)
	if err != nil {
		return fmt.Errorf("hard delete invitations by creator: %w", err)
	}
	return nil
}
