package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// companyProfileRepo implementa repository.CompanyProfileRepository sobre
// MySQL. Simétrico al repo de persona.
type companyProfileRepo struct {
	db *sql.DB
}

const companyProfileColumns = `id, user_id, user_name, company_name, trade_name, cnpj, description,
	created_by, owner_id, created_at, updated_at, deleted_at`

func scanCompanyProfile(row rowScanner) (*repository.CompanyProfile, int64, error) {
	var (
		id int64
		p  repository.CompanyProfile
	)
	err := row.Scan(&id, &p.UserID, &p.UserName, &p.CompanyName, &p.TradeName, &p.CNPJ,
		&p.Description, &p.CreatedBy, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		rows, err := r.db.QueryContext(ctx, `
			SELECT bank_name, bank_agency, bank_account, bank_account_type, bank_pix
			FROM company_bank_data WHERE company_profile_id = ? ORDER BY id`, pk)
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
		rows, err := r.db.QueryContext(ctx, `
			SELECT file_description, file_name
			FROM company_related_file WHERE company_profile_id = ? ORDER BY id`, pk)
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
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO company_bank_data (company_profile_id,
				bank_name, bank_agency, bank_account, bank_account_type, bank_pix)
			VALUES (?, ?, ?, ?, ?, ?)`,
			pk, b.BankName, b.Branch, b.Account, b.AccountType, b.Pix)
		if err != nil {
			return fmt.Errorf("insert company bank data: %w", err)
		}
	}
	return nil
}

func (r *companyProfileRepo) insertRelatedFiles(ctx context.Context, pk int64, items []repository.CompanyRelatedFile) error {
	for _, f := range items {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO company_related_file (company_profile_id, file_description, file_name)
			VALUES (?, ?, ?)`,
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

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO company_profile (user_id, user_name, company_name, trade_name,
			cnpj, description, created_by, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.UserID, input.UserName, input.CompanyName, input.TradeName,
		input.CNPJ, input.Description, input.CreatedBy, ownerID)
	if err != nil {
		return nil, fmt.Errorf("insert company profile: %w", err)
	}
	pk, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert company profile id: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.insertBankData(gctx, pk, input.BankDataOne, input.BankDataTwo) })
	g.Go(func() error { return r.insertRelatedFiles(gctx, pk, input.RelatedFiles) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, formatID(pk))
}

func (r *companyProfileRepo) FindByID(ctx context.Context, id string) (*repository.CompanyProfile, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+companyProfileColumns+` FROM company_profile WHERE id = ?`, pk)
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
	row := r.db.QueryRowContext(ctx, `SELECT `+companyProfileColumns+` FROM company_profile WHERE user_id = ?`, userID)
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
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyProfileColumns+` FROM company_profile WHERE user_id IN (`+placeholders(len(userIDs))+`) ORDER BY id`,
		args...)
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
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = NOW()"}
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
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
	args = append(args, pk)

	if _, err := r.db.ExecContext(ctx,
		`UPDATE company_profile SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update company profile: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if input.BankDataOne != nil || input.BankDataTwo != nil {
		one, two := input.BankDataOne, input.BankDataTwo
		g.Go(func() error {
			if _, err := r.db.ExecContext(gctx, `DELETE FROM company_bank_data WHERE company_profile_id = ?`, pk); err != nil {
				return fmt.Errorf("delete company bank data: %w", err)
			}
			return r.insertBankData(gctx, pk, one, two)
		})
	}
	if input.RelatedFiles != nil {
		g.Go(func() error {
			if _, err := r.db.ExecContext(gctx, `DELETE FROM company_related_file WHERE company_profile_id = ?`, pk); err != nil {
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM company_profile WHERE id = ?`, pk)
	if err != nil {
		return fmt.Errorf("delete company profile: %w", err)
	}
	return notFoundIfZero(res)
}

func (r *companyProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM company_profile WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete company profile by user: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.CompanyProfile], error) {
	like := "%" + pattern + "%"

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM company_profile WHERE LOWER(user_name) LIKE LOWER(?)`, like).Scan(&total); err != nil {
		return nil, fmt.Errorf("count company profiles: %w", err)
	}

	q := `SELECT ` + companyProfileColumns + ` FROM company_profile WHERE LOWER(user_name) LIKE LOWER(?) ORDER BY id`
	args := []any{like}
	if page != nil && limit != nil {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, *limit, (*page-1)*(*limit))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
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
	_, err := r.db.ExecContext(ctx,
		`UPDATE company_profile SET deleted_at = ?, updated_at = NOW() WHERE created_by = ?`,
		at, userID)
	if err != nil {
		return fmt.Errorf("soft delete company profiles by creator: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE company_profile SET deleted_at = NULL, updated_at = NOW() WHERE created_by = ? AND deleted_at IS NOT NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("restore company profiles by creator: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM company_profile WHERE created_by = ?`, userID)
	if err != nil {
		return fmt.Errorf("hard delete company profiles by creator: %w", err)
	}
	return nil
}
