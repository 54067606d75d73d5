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

// personProfileRepo implementa repository.PersonProfileRepository sobre
// PostgreSQL. Las colecciones anidadas viven en tablas hijas
// (person_job, person_education, person_course, person_bank_data,
// person_related_file) con FK al perfil; la lectura las rearma al shape
// canónico y la escritura las dispersa.
//
// Las escrituras de hijas son best-effort: no hay transacción que las
// envuelva junto al padre. Un fallo parcial deja hijas huérfanas de datos,
// nunca de FK (ON DELETE CASCADE limpia al borrar el perfil).
type personProfileRepo struct {
	pool *pgxpool.Pool
}

const personProfileColumns = `id, user_id, user_name, person_name, person_nickname, gender,
	birthday, marital_status, mother_name, description,
	created_by, owner_id, created_at, updated_at, deleted_at`

func scanPersonProfile(row pgx.Row) (*repository.PersonProfile, int64, error) {
	var (
		id int64
		p  repository.PersonProfile
	)
	err := row.Scan(&id, &p.UserID, &p.UserName, &p.PersonName, &p.Nickname, &p.Gender,
		&p.Birthday, &p.MaritalStatus, &p.MotherName, &p.Description,
		&p.CreatedBy, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, repository.ErrNotFound
		}
		return nil, 0, fmt.Errorf("scan person profile: %w", err)
	}
	p.ID = formatID(id)
	return &p, id, nil
}

// ─── Lectura: rearmado de las colecciones anidadas ───

// loadPersonChildren carga las cinco tablas hijas en paralelo y las cuelga
// del perfil.
func (r *personProfileRepo) loadPersonChildren(ctx context.Context, pk int64, p *repository.PersonProfile) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT job_id, job_start_date_month, job_start_date_year,
			       job_finish_date_month, job_finish_date_year, job_description
			FROM person_job WHERE person_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load person jobs: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var j repository.PersonJob
			if err := rows.Scan(&j.JobID, &j.StartMonth, &j.StartYear,
				&j.FinishMonth, &j.FinishYear, &j.Description); err != nil {
				return fmt.Errorf("scan person job: %w", err)
			}
			p.Professions = append(p.Professions, j)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT education_institution, education_course,
			       education_start_date_month, education_start_date_year,
			       education_finish_date_month, education_finish_date_year,
			       education_description, education_certificate_file
			FROM person_education WHERE person_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load person educations: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				e                      repository.PersonEducation
				sm, sy, fm, fy         int
			)
			if err := rows.Scan(&e.Institution, &e.Course, &sm, &sy, &fm, &fy,
				&e.Description, &e.CertificateFile); err != nil {
				return fmt.Errorf("scan person education: %w", err)
			}
			e.StartDate = monthYearToDate(sm, sy)
			e.FinishDate = monthYearToDate(fm, fy)
			p.Educations = append(p.Educations, e)
		}
		return rows.Err()
	})

	g.Go(func() error {
		// El archivo de certificado viaja en course_description: el shape
		// canónico lo expone como CertificateFile.
		rows, err := r.pool.Query(ctx, `
			SELECT course_institution, course_name,
			       course_start_date_month, course_start_date_year,
			       course_finish_date_month, course_finish_date_year,
			       course_description
			FROM person_course WHERE person_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load person courses: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				c              repository.PersonCourse
				sm, sy, fm, fy int
			)
			if err := rows.Scan(&c.Institution, &c.Name, &sm, &sy, &fm, &fy,
				&c.CertificateFile); err != nil {
				return fmt.Errorf("scan person course: %w", err)
			}
			c.StartDate = monthYearToDate(sm, sy)
			c.FinishDate = monthYearToDate(fm, fy)
			p.Courses = append(p.Courses, c)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT bank_name, bank_agency, bank_account, bank_account_type, bank_pix
			FROM person_bank_data WHERE person_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load person bank data: %w", err)
		}
		defer rows.Close()
		var all []repository.PersonBankData
		for rows.Next() {
			var b repository.PersonBankData
			if err := rows.Scan(&b.BankName, &b.Branch, &b.Account, &b.AccountType, &b.Pix); err != nil {
				return fmt.Errorf("scan person bank data: %w", err)
			}
			all = append(all, b)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		// La primera fila es el juego uno, la segunda el juego dos.
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
			FROM person_related_file WHERE person_profile_id = $1 ORDER BY id`, pk)
		if err != nil {
			return fmt.Errorf("load person related files: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var f repository.PersonRelatedFile
			if err := rows.Scan(&f.Description, &f.FileName); err != nil {
				return fmt.Errorf("scan person related file: %w", err)
			}
			p.RelatedFiles = append(p.RelatedFiles, f)
		}
		return rows.Err()
	})

	return g.Wait()
}

// ─── Escritura: dispersión a las tablas hijas ───

func (r *personProfileRepo) insertJobs(ctx context.Context, pk int64, jobs []repository.PersonJob) error {
	for _, j := range jobs {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO person_job (person_profile_id, job_id,
				job_start_date_month, job_start_date_year,
				job_finish_date_month, job_finish_date_year, job_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			pk, j.JobID, j.StartMonth, j.StartYear, j.FinishMonth, j.FinishYear, j.Description)
		if err != nil {
			return fmt.Errorf("insert person job: %w", err)
		}
	}
	return nil
}

func (r *personProfileRepo) insertEducations(ctx context.Context, pk int64, items []repository.PersonEducation) error {
	for _, e := range items {
		sm, sy := dateToMonthYear(e.StartDate)
		fm, fy := dateToMonthYear(e.FinishDate)
		_, err := r.pool.Exec(ctx, `
			INSERT INTO person_education (person_profile_id,
				education_institution, education_course,
				education_start_date_month, education_start_date_year,
				education_finish_date_month, education_finish_date_year,
				education_description, education_certificate_file)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			pk, e.Institution, e.Course, sm, sy, fm, fy, e.Description, e.CertificateFile)
		if err != nil {
			return fmt.Errorf("insert person education: %w", err)
		}
	}
	return nil
}

func (r *personProfileRepo) insertCourses(ctx context.Context, pk int64, items []repository.PersonCourse) error {
	for _, c := range items {
		sm, sy := dateToMonthYear(c.StartDate)
		fm, fy := dateToMonthYear(c.FinishDate)
		_, err := r.pool.Exec(ctx, `
			INSERT INTO person_course (person_profile_id,
				course_institution, course_name,
				course_start_date_month, course_start_date_year,
				course_finish_date_month, course_finish_date_year,
				course_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			pk, c.Institution, c.Name, sm, sy, fm, fy, c.CertificateFile)
		if err != nil {
			return fmt.Errorf("insert person course: %w", err)
		}
	}
	return nil
}

func (r *personProfileRepo) insertBankData(ctx context.Context, pk int64, one, two *repository.PersonBankData) error {
	for _, b := range []*repository.PersonBankData{one, two} {
		if b == nil {
			continue
		}
		_, err := r.pool.Exec(ctx, `
			INSERT INTO person_bank_data (person_profile_id,
				bank_name, bank_agency, bank_account, bank_account_type, bank_pix)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			pk, b.BankName, b.Branch, b.Account, b.AccountType, b.Pix)
		if err != nil {
			return fmt.Errorf("insert person bank data: %w", err)
		}
	}
	return nil
}

func (r *personProfileRepo) insertRelatedFiles(ctx context.Context, pk int64, items []repository.PersonRelatedFile) error {
	for _, f := range items {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO person_related_file (person_profile_id, file_description, file_name)
			VALUES ($1, $2, $3)`,
			pk, f.Description, f.FileName)
		if err != nil {
			return fmt.Errorf("insert person related file: %w", err)
		}
	}
	return nil
}

func (r *personProfileRepo) deleteChild(ctx context.Context, table string, pk int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE person_profile_id = $1`, pk)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// ─── Operaciones del contrato ───

func (r *personProfileRepo) Create(ctx context.Context, input repository.CreatePersonProfileInput) (*repository.PersonProfile, error) {
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO person_profile (user_id, user_name, person_name, person_nickname,
			gender, birthday, marital_status, mother_name, description,
			created_by, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+personProfileColumns,
		input.UserID, input.UserName, input.PersonName, input.Nickname,
		input.Gender, input.Birthday, input.MaritalStatus, input.MotherName,
		input.Description, input.CreatedBy, ownerID)
	p, pk, err := scanPersonProfile(row)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.insertJobs(gctx, pk, input.Professions) })
	g.Go(func() error { return r.insertEducations(gctx, pk, input.Educations) })
	g.Go(func() error { return r.insertCourses(gctx, pk, input.Courses) })
	g.Go(func() error { return r.insertBankData(gctx, pk, input.BankDataOne, input.BankDataTwo) })
	g.Go(func() error { return r.insertRelatedFiles(gctx, pk, input.RelatedFiles) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, p.ID)
}

func (r *personProfileRepo) FindByID(ctx context.Context, id string) (*repository.PersonProfile, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+personProfileColumns+` FROM person_profile WHERE id = $1`, pk)
	p, pk, err := scanPersonProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPersonChildren(ctx, pk, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *personProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.PersonProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+personProfileColumns+` FROM person_profile WHERE user_id = $1`, userID)
	p, pk, err := scanPersonProfile(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPersonChildren(ctx, pk, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *personProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.PersonProfile, error) {
	if len(userIDs) == 0 {
		return []repository.PersonProfile{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+personProfileColumns+` FROM person_profile WHERE user_id = ANY($1) ORDER BY id`,
		userIDs)
	if err != nil {
		return nil, fmt.Errorf("find person profiles by user ids: %w", err)
	}
	defer rows.Close()

	var (
		out []repository.PersonProfile
		pks []int64
	)
	for rows.Next() {
		p, pk, err := scanPersonProfile(rows)
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
		if err := r.loadPersonChildren(ctx, pks[i], &out[i]); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []repository.PersonProfile{}
	}
	return out, nil
}

func (r *personProfileRepo) Update(ctx context.Context, id string, input repository.UpdatePersonProfileInput) (*repository.PersonProfile, error) {
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
	if input.PersonName != nil {
		add("person_name", *input.PersonName)
	}
	if input.Nickname != nil {
		add("person_nickname", *input.Nickname)
	}
	if input.Gender != nil {
		add("gender", *input.Gender)
	}
	if input.Birthday != nil {
		add("birthday", *input.Birthday)
	}
	if input.MaritalStatus != nil {
		add("marital_status", *input.MaritalStatus)
	}
	if input.MotherName != nil {
		add("mother_name", *input.MotherName)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE person_profile SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, fmt.Errorf("update person profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	// Las colecciones no-nil se reemplazan por completo: delete + insert.
	g, gctx := errgroup.WithContext(ctx)
	if input.Professions != nil {
		g.Go(func() error {
			if err := r.deleteChild(gctx, "person_job", pk); err != nil {
				return err
			}
			return r.insertJobs(gctx, pk, *input.Professions)
		})
	}
	if input.Educations != nil {
		g.Go(func() error {
			if err := r.deleteChild(gctx, "person_education", pk); err != nil {
				return err
			}
			return r.insertEducations(gctx, pk, *input.Educations)
		})
	}
	if input.Courses != nil {
		g.Go(func() error {
			if err := r.deleteChild(gctx, "person_course", pk); err != nil {
				return err
			}
			return r.insertCourses(gctx, pk, *input.Courses)
		})
	}
	if input.BankDataOne != nil || input.BankDataTwo != nil {
		one, two := input.BankDataOne, input.BankDataTwo
		g.Go(func() error {
			if err := r.deleteChild(gctx, "person_bank_data", pk); err != nil {
				return err
			}
			return r.insertBankData(gctx, pk, one, two)
		})
	}
	if input.RelatedFiles != nil {
		g.Go(func() error {
			if err := r.deleteChild(gctx, "person_related_file", pk); err != nil {
				return err
			}
			return r.insertRelatedFiles(gctx, pk, *input.RelatedFiles)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *personProfileRepo) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	// Las hijas caen por ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM person_profile WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("delete person profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *personProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM person_profile WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete person profile by user: %w", err)
	}
	return nil
}

func (r *personProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.PersonProfile], error) {
	like := "%" + pattern + "%"

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM person_profile WHERE user_name ILIKE $1`, like).Scan(&total); err != nil {
		return nil, fmt.Errorf("count person profiles: %w", err)
	}

	q := `SELECT ` + personProfileColumns + ` FROM person_profile WHERE user_name ILIKE $1 ORDER BY id`
	args := []any{like}
	if page != nil && limit != nil {
		args = append(args, *limit, (*page-1)*(*limit))
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find person profiles by username: %w", err)
	}
	defer rows.Close()

	result := &repository.ProfilePage[repository.PersonProfile]{Items: []repository.PersonProfile{}, Total: total}
	var pks []int64
	for rows.Next() {
		p, pk, err := scanPersonProfile(rows)
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
		if err := r.loadPersonChildren(ctx, pks[i], &result.Items[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ─── Cascada ───

func (r *personProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE person_profile SET deleted_at = $2, updated_at = now() WHERE created_by = $1`,
		userID, at)
	if err != nil {
		return fmt.Errorf("soft delete person profiles by creator: %w", err)
	}
	return nil
}

func (r *personProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE person_profile SET deleted_at = NULL, updated_at = now() WHERE created_by = $1 AND deleted_at IS NOT NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("restore person profiles by creator: %w", err)
	}
	return nil
}

func (r *personProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM person_profile WHERE created_by = $1`, userID)
	if err != nil {
		return fmt.Errorf("hard delete person profiles by creator: %w", err)
	}
	return nil
}

// ─── Conversión fecha ↔ par mes/año ───

// monthYearToDate reconstruye la fecha desde el par mes/año almacenado.
// El par (0, 0) significa fecha ausente.
func monthYearToDate(month, year int) *time.Time {
	if month == 0 && year == 0 {
		return nil
	}
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// dateToMonthYear descompone la fecha en el par mes/año a almacenar.
func dateToMonthYear(t *time.Time) (month, year int) {
	if t == nil {
		return 0, 0
	}
	return int(t.Month()), t.Year()
}
