package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// companyProfileRepo implementa repository.CompanyProfileRepository sobre
// PostgreSQL. Simétrico al repo de persona: datos bancarios y archivos en
// tablas hijas, resto en la tabla padre.
type companyProfileRepo struct {
	pool *pgxpool.Pool
}

const companyProfileColumns = `id, user_id, user_name, company_name, trade_name, cnpj, description,
	created_by, owner_id, created_at, updated_at, deleted_at`

func scanCompanyProfile(row pgx.Row) (*repository.CompanyProfile, int64, error) {
	var (
		id int64
		p  repository.CompanyProfile
	)
	err := row.Scan(&id, &p.UserID, &p.UserName, &p.CompanyName, &p.TradeName, &p.CNPJ,
		&p.Description, &p.CreatedBy, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, repository.ErrNotFound
		}
		return nil, 0, fmt.Errorf("scan company profile: %w", err)
	}
	p.ID = formatID(id)
	return &p, id, nil
}

func (r *companyProfileRepo) loadCompanyChildren(ctx context.Context, pk int64, p *repository.CompanyProfile) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT bank_name, bank_agency, bank_account, bank_account_type, bank_pix
			FROM company_bank_data WHERE company_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load company bank data: %w", err)
		}
		defer rows.Close()
		var all []repository.CompanyBankData
		for rows.Next() {
			var b repository.CompanyBankData
			if err := rows.Scan(&b.BankName, &b.Branch, &b.Account, &b.AccountType, &b.Pix); err != nil {
				return fmt.Errorf("scan company bank data: %w", err)
			}
			all = append(all, b)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(all) > 0 {
			p.BankDataOne = &all[0]
		}
		if len(all) > 1 {
			p.BankDataTwo = &all[1]
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT file_description, file_name
			FROM company_related_file WHERE company_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load company related files: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var f repository.CompanyRelatedFile
			if err := rows.Scan(&f.Description, &f.FileName); err != nil {
				return fmt.Errorf("scan company related file: %w", err)
			}
			p.RelatedFiles = append(p.RelatedFiles, f)
		}
		return rows.Err()
	})

	return g.Wait()
}

func (r *companyProfileRepo) insertBankData(ctx context.Context, pk int64, one, two *repository.CompanyBankData) error {
	for _, b := range []*repository.CompanyBankData{one, two} {
		if b == nil {
			continue
		}
		_, err := r.pool.Exec(ctx, `
			INSERT INTO company_bank_data (company_profile_id,
				bank_name, bank_agency, bank_account, bank_account_type, bank_pix)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			pk, b.BankName, b.Branch, b.Account, b.AccountType, b.Pix)
		if err != nil {
			return fmt.Errorf("insert company bank data: %w", err)
		}
	}
	return nil
}

func (r *companyProfileRepo) insertRelatedFiles(ctx context.Context, pk int64, items []repository.CompanyRelatedFile) error {
	for _, f := range items {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO company_related_file (company_profile_id, file_description, file_name)
			VALUES ($1, $2, $3)`,
			pk, f.Description, f.FileName)
		if err != nil {
			return fmt.Errorf("insert company related file: %w", err)
		}
	}
	return nil
}

func (r *companyProfileRepo) Create(ctx context.Context, input repository.CreateCompanyProfileInput) (*repository.CompanyProfile, error) {
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO company_profile (user_id, user_name, company_name, trade_name,
			cnpj, description, created_by, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+companyProfileColumns,
		input.UserID, input.UserName, input.CompanyName, input.TradeName,
		input.CNPJ, input.Description, input.CreatedBy, ownerID)
	p, pk, err := scanCompanyProfile(row)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.insertBankData(gctx, pk, input.BankDataOne, input.BankDataTwo) })
	g.Go(func() error { return r.insertRelatedFiles(gctx, pk, input.RelatedFiles) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, p.ID)
}

func (r *companyProfileRepo) FindByID(ctx context.Context, id string) (*repository.CompanyProfile, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+companyProfileColumns+` FROM company_profile WHERE id = $1`, pk)
	p, pk, err := scanCompanyProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadCompanyChildren(ctx, pk, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *companyProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.CompanyProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyProfileColumns+` FROM company_profile WHERE user_id = $1`, userID)
	p, pk, err := scanCompanyProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadCompanyChildren(ctx, pk, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *companyProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.CompanyProfile, error) {
	if len(userIDs) == 0 {
		return []repository.CompanyProfile{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyProfileColumns+` FROM company_profile WHERE user_id = ANY($1) ORDER BY id`,
		userIDs)
	if err != nil {
		return nil, fmt.Errorf("find company profiles by user ids: %w", err)
	}
	defer rows.Close()

	var (
		out []repository.CompanyProfile
		pks []int64
	)
	for rows.Next() {
		p, pk, err := scanCompanyProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
		pks = append(pks, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadCompanyChildren(ctx, pks[i], &out[i]); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []repository.CompanyProfile{}
	}
	return out, nil
}

func (r *companyProfileRepo) Update(ctx context.Context, id string, input repository.UpdateCompanyProfileInput) (*repository.CompanyProfile, error) {
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
	if input.UserName != nil {
		add("user_name", *input.UserName)
	}
	if input.CompanyName != nil {
		add("company_name", *input.CompanyName)
	}
	if input.TradeName != nil {
		add("trade_name", *input.TradeName)
	}
	if input.CNPJ != nil {
		add("cnpj", *input.CNPJ)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE company_profile SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, fmt.Errorf("update company profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	g, gctx := errgroup.WithContext(ctx)
	if input.BankDataOne != nil || input.BankDataTwo != nil {
		one, two := input.BankDataOne, input.BankDataTwo
		g.Go(func() error {
			if _, err := r.pool.Exec(gctx, `DELETE FROM company_bank_data WHERE company_profile_id = $1`, pk); err != nil {
				return fmt.Errorf("delete company bank data: %w", err)
			}
			return r.insertBankData(gctx, pk, one, two)
		})
	}
	if input.RelatedFiles != nil {
		g.Go(func() error {
			if _, err := r.pool.Exec(gctx, `DELETE FROM company_related_file WHERE company_profile_id = $1`, pk); err != nil {
				return fmt.Errorf("delete company related files: %w", err)
			}
			return r.insertRelatedFiles(gctx, pk, *input.RelatedFiles)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *companyProfileRepo) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM company_profile WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("delete company profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *companyProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM company_profile WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete company profile by user: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.CompanyProfile], error) {
	like := "%" + pattern + "%"

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM company_profile WHERE user_name ILIKE $1`, like).Scan(&total); err != nil {
		return nil, fmt.Errorf("count company profiles: %w", err)
	}

	q := `SELECT ` + companyProfileColumns + ` FROM company_profile WHERE user_name ILIKE $1 ORDER BY id`
	args := []any{like}
	if page != nil && limit != nil {
		args = append(args, *limit, (*page-1)*(*limit))
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find company profiles by username: %w", err)
	}
	defer rows.Close()

	result := &repository.ProfilePage[repository.CompanyProfile]{Items: []repository.CompanyProfile{}, Total: total}
	var pks []int64
	for rows.Next() {
		p, pk, err := scanCompanyProfile(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, *p)
		pks = append(pks, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result.Items {
		if err := r.loadCompanyChildren(ctx, pks[i], &result.Items[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *companyProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE company_profile SET deleted_at = $2, updated_at = now() WHERE created_by = $1`,
		userID, at)
	if err != nil {
		return fmt.Errorf("soft delete company profiles by creator: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE company_profile SET deleted_at = NULL, updated_at = now() WHERE created_by = $1 AND deleted_at IS NOT NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("restore company profiles by creator: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM company_profile WHERE created_by = $1`, userID)
	if err != nil {
		return fmt.Errorf("hard delete company profiles by creator: %w", err)
	}
	return nil
}
