package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
)

func newPersonRepo(t *testing.T) (*personProfileRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	// Las hijas se leen y escriben en paralelo: el orden no es determinista.
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return &personProfileRepo{db: db}, mock
}

func personParentRows(id int64, userName string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "person_name", "person_nickname", "gender",
		"birthday", "marital_status", "mother_name", "description",
		"created_by", "owner_id", "created_at", "updated_at", "deleted_at",
	}).AddRow(id, "u1", userName, "Ana", "", "f", nil, "", "", "", "u1", "u1", now, now, nil)
}

func emptyPersonChildRows() (jobs, educations, courses, banks, files *sqlmock.Rows) {
	jobs = sqlmock.NewRows([]string{"job_id", "job_start_date_month", "job_start_date_year",
		"job_finish_date_month", "job_finish_date_year", "job_description"})
	educations = sqlmock.NewRows([]string{"education_institution", "education_course",
		"education_start_date_month", "education_start_date_year",
		"education_finish_date_month", "education_finish_date_year",
		"education_description", "education_certificate_file"})
	courses = sqlmock.NewRows([]string{"course_institution", "course_name",
		"course_start_date_month", "course_start_date_year",
		"course_finish_date_month", "course_finish_date_year", "course_description"})
	banks = sqlmock.NewRows([]string{"bank_name", "bank_agency", "bank_account",
		"bank_account_type", "bank_pix"})
	files = sqlmock.NewRows([]string{"file_description", "file_name"})
	return
}

func expectPersonChildren(mock sqlmock.Sqlmock, pk int64,
	jobs, educations, courses, banks, files *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_job WHERE person_profile_id = ?`)).
		WithArgs(pk).WillReturnRows(jobs)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_education WHERE person_profile_id = ?`)).
		WithArgs(pk).WillReturnRows(educations)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_course WHERE person_profile_id = ?`)).
		WithArgs(pk).WillReturnRows(courses)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_bank_data WHERE person_profile_id = ?`)).
		WithArgs(pk).WillReturnRows(banks)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_related_file WHERE person_profile_id = ?`)).
		WithArgs(pk).WillReturnRows(files)
}

func TestPersonProfileRepo_FindByID_RebuildsNestedCollections(t *testing.T) {
	repo, mock := newPersonRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_profile WHERE id = ?`)).
		WithArgs(int64(3)).
		WillReturnRows(personParentRows(3, "anita"))

	jobs, educations, courses, banks, files := emptyPersonChildRows()
	jobs.AddRow("dev", 1, 2019, 6, 2022, "backend")
	educations.AddRow("UBA", "CS", 3, 2018, 12, 2021, "grado", "titulo.pdf")
	// course_description transporta el archivo de certificado.
	courses.AddRow("Coursera", "Go", 2, 2023, 0, 0, "cert-go.pdf")
	banks.AddRow("Banco A", "0001", "123-4", "corriente", "pix-a")
	banks.AddRow("Banco B", "0002", "567-8", "ahorro", "pix-b")
	files.AddRow("DNI escaneado", "dni.png")
	expectPersonChildren(mock, 3, jobs, educations, courses, banks, files)

	p, err := repo.FindByID(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, "3", p.ID)
	require.Equal(t, "anita", p.UserName)

	require.Len(t, p.Professions, 1)
	require.Equal(t, "dev", p.Professions[0].JobID)
	require.Equal(t, 2019, p.Professions[0].StartYear)

	// Los pares mes/año vuelven como fechas al día 1.
	require.Len(t, p.Educations, 1)
	require.Equal(t, time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC), *p.Educations[0].StartDate)
	require.Equal(t, time.Date(2021, time.December, 1, 0, 0, 0, 0, time.UTC), *p.Educations[0].FinishDate)
	require.Equal(t, "titulo.pdf", p.Educations[0].CertificateFile)

	require.Len(t, p.Courses, 1)
	require.Equal(t, "cert-go.pdf", p.Courses[0].CertificateFile)
	// (0, 0) significa fecha ausente.
	require.Nil(t, p.Courses[0].FinishDate)

	// Primera y segunda fila ordenadas por id.
	require.NotNil(t, p.BankDataOne)
	require.Equal(t, "0001", p.BankDataOne.Branch)
	require.NotNil(t, p.BankDataTwo)
	require.Equal(t, "0002", p.BankDataTwo.Branch)

	require.Len(t, p.RelatedFiles, 1)
	require.Equal(t, "dni.png", p.RelatedFiles[0].FileName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonProfileRepo_FindByID_EmptyCollections(t *testing.T) {
	repo, mock := newPersonRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_profile WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnRows(personParentRows(5, "solo"))
	jobs, educations, courses, banks, files := emptyPersonChildRows()
	expectPersonChildren(mock, 5, jobs, educations, courses, banks, files)

	p, err := repo.FindByID(context.Background(), "5")
	require.NoError(t, err)
	require.Empty(t, p.Professions)
	require.Empty(t, p.Educations)
	require.Empty(t, p.Courses)
	require.Nil(t, p.BankDataOne)
	require.Nil(t, p.BankDataTwo)
	require.Empty(t, p.RelatedFiles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonProfileRepo_Create_ScattersChildren(t *testing.T) {
	repo, mock := newPersonRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO person_profile`)).
		WithArgs("u1", "anita", "Ana", "", "f", nil, "", "", "", "u1", "u1").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO person_job`)).
		WithArgs(int64(3), "dev", 1, 2019, 6, 2022, "backend").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// El certificado del curso viaja en course_description.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO person_course`)).
		WithArgs(int64(3), "Coursera", "Go", 2, 2023, 0, 0, "cert-go.pdf").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO person_bank_data`)).
		WithArgs(int64(3), "Banco A", "0001", "123-4", "corriente", "pix-a").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Releído tras el insert para devolver el shape canónico.
	mock.ExpectQuery(regexp.QuoteMeta(`FROM person_profile WHERE id = ?`)).
		WithArgs(int64(3)).
		WillReturnRows(personParentRows(3, "anita"))
	jobs, educations, courses, banks, files := emptyPersonChildRows()
	jobs.AddRow("dev", 1, 2019, 6, 2022, "backend")
	courses.AddRow("Coursera", "Go", 2, 2023, 0, 0, "cert-go.pdf")
	banks.AddRow("Banco A", "0001", "123-4", "corriente", "pix-a")
	expectPersonChildren(mock, 3, jobs, educations, courses, banks, files)

	start := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	p, err := repo.Create(context.Background(), repository.CreatePersonProfileInput{
		UserID:     "u1",
		UserName:   "anita",
		PersonName: "Ana",
		Gender:     "f",
		CreatedBy:  "u1",
		Professions: []repository.PersonJob{
			{JobID: "dev", StartMonth: 1, StartYear: 2019, FinishMonth: 6, FinishYear: 2022, Description: "backend"},
		},
		Courses: []repository.PersonCourse{
			{Institution: "Coursera", Name: "Go", StartDate: &start, CertificateFile: "cert-go.pdf"},
		},
		BankDataOne: &repository.PersonBankData{
			BankName: "Banco A", Branch: "0001", Account: "123-4", AccountType: "corriente", Pix: "pix-a",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "3", p.ID)
	require.Len(t, p.Professions, 1)
	require.Len(t, p.Courses, 1)
	require.Equal(t, "cert-go.pdf", p.Courses[0].CertificateFile)
	require.NotNil(t, p.BankDataOne)
	require.Nil(t, p.BankDataTwo)
	require.Empty(t, p.Educations)
	require.NoError(t, mock.ExpectationsWereMet())
}
