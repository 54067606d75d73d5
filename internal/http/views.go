package http

import (
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// Views: representación JSON de las entidades de dominio. Los hashes de
// password nunca se serializan.

type userView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Verified  bool       `json:"verified"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toUserView(u *repository.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

type personJobView struct {
	JobID       string `json:"job_id"`
	StartMonth  int    `json:"start_month"`
	StartYear   int    `json:"start_year"`
	FinishMonth int    `json:"finish_month"`
	FinishYear  int    `json:"finish_year"`
	Description string `json:"description"`
}

type personEducationView struct {
	Institution     string     `json:"institution"`
	Course          string     `json:"course"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FinishDate      *time.Time `json:"finish_date,omitempty"`
	Description     string     `json:"description"`
	CertificateFile string     `json:"certificate_file"`
}

type personCourseView struct {
	Institution     string     `json:"institution"`
	Name            string     `json:"name"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FinishDate      *time.Time `json:"finish_date,omitempty"`
	CertificateFile string     `json:"certificate_file"`
}

type bankDataView struct {
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	Account     string `json:"account"`
	AccountType string `json:"account_type"`
	Pix         string `json:"pix"`
}

type relatedFileView struct {
	Description string `json:"description"`
	FileName    string `json:"file_name"`
}

type personProfileView struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name"`
	PersonName    string     `json:"person_name"`
	Nickname      string     `json:"nickname"`
	Gender        string     `json:"gender"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	MaritalStatus string     `json:"marital_status"`
	MotherName    string     `json:"mother_name"`
	Description   string     `json:"description"`

	Professions  []personJobView       `json:"professions"`
	Educations   []personEducationView `json:"educations"`
	Courses      []personCourseView    `json:"courses"`
	BankDataOne  *bankDataView         `json:"bank_data_one,omitempty"`
	BankDataTwo  *bankDataView         `json:"bank_data_two,omitempty"`
	RelatedFiles []relatedFileView     `json:"related_files"`

	CreatedBy string     `json:"created_by"`
	OwnerID   string     `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toPersonBankView(b *repository.PersonBankData) *bankDataView {
	if b == nil {
		return nil
	}
	return &bankDataView{
		BankName:    b.BankName,
		Branch:      b.Branch,
		Account:     b.Account,
		AccountType: b.AccountType,
		Pix:         b.Pix,
	}
}

func toCompanyBankView(b *repository.CompanyBankData) *bankDataView {
	if b == nil {
		return nil
	}
	return &bankDataView{
		BankName:    b.BankName,
		Branch:      b.Branch,
		Account:     b.Account,
		AccountType: b.AccountType,
		Pix:         b.Pix,
	}
}

func toPersonProfileView(p *repository.PersonProfile) personProfileView {
	v := personProfileView{
		ID:            p.ID,
		UserID:        p.UserID,
		UserName:      p.UserName,
		PersonName:    p.PersonName,
		Nickname:      p.Nickname,
		Gender:        p.Gender,
		Birthday:      p.Birthday,
		MaritalStatus: p.MaritalStatus,
		MotherName:    p.MotherName,
		Description:   p.Description,
		BankDataOne:   toPersonBankView(p.BankDataOne),
		BankDataTwo:   toPersonBankView(p.BankDataTwo),
		CreatedBy:     p.CreatedBy,
		OwnerID:       p.OwnerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		DeletedAt:     p.DeletedAt,
	}
	v.Professions = make([]personJobView, 0, len(p.Professions))
	for _, j := range p.Professions {
		v.Professions = append(v.Professions, personJobView(j))
	}
	v.Educations = make([]personEducationView, 0, len(p.Educations))
	for _, e := range p.Educations {
		v.Educations = append(v.Educations, personEducationView(e))
	}
	v.Courses = make([]personCourseView, 0, len(p.Courses))
	for _, c := range p.Courses {
		v.Courses = append(v.Courses, personCourseView(c))
	}
	v.RelatedFiles = make([]relatedFileView, 0, len(p.RelatedFiles))
	for _, f := range p.RelatedFiles {
		v.RelatedFiles = append(v.RelatedFiles, relatedFileView(f))
	}
	return v
}

type companyProfileView struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	CompanyName string `json:"company_name"`
	TradeName   string `json:"trade_name"`
	CNPJ        string `json:"cnpj"`
	Description string `json:"description"`

	BankDataOne  *bankDataView     `json:"bank_data_one,omitempty"`
	BankDataTwo  *bankDataView     `json:"bank_data_two,omitempty"`
	RelatedFiles []relatedFileView `json:"related_files"`

	CreatedBy string     `json:"created_by"`
	OwnerID   string     `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toCompanyProfileView(p *repository.CompanyProfile) companyProfileView {
	v := companyProfileView{
		ID:          p.ID,
		UserID:      p.UserID,
		UserName:    p.UserName,
		CompanyName: p.CompanyName,
		TradeName:   p.TradeName,
		CNPJ:        p.CNPJ,
		Description: p.Description,
		BankDataOne: toCompanyBankView(p.BankDataOne),
		BankDataTwo: toCompanyBankView(p.BankDataTwo),
		CreatedBy:   p.CreatedBy,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
	v.RelatedFiles = make([]relatedFileView, 0, len(p.RelatedFiles))
	for _, f := range p.RelatedFiles {
		v.RelatedFiles = append(v.RelatedFiles, relatedFileView(f))
	}
	return v
}

type aclEntryView struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type workspaceView struct {
	ID        string         `json:"id"`
	Owner     string         `json:"owner"`
	Name      string         `json:"name"`
	Team      []string       `json:"team"`
	ACL       []aclEntryView `json:"acl"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toWorkspaceView(ws *repository.Workspace) workspaceView {
	v := workspaceView{
		ID:        ws.ID,
		Owner:     ws.Owner,
		Name:      ws.Name,
		Team:      ws.Team,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
	if v.Team == nil {
		v.Team = []string{}
	}
	v.ACL = make([]aclEntryView, 0, len(ws.ACL))
	for _, e := range ws.ACL {
		v.ACL = append(v.ACL, aclEntryView(e))
	}
	return v
}

type invitationView struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedBy  string     `json:"created_by"`
	OwnerID    string     `json:"owner_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toInvitationView(inv *repository.Invitation) invitationView {
	return invitationView{
		ID:         inv.ID,
		Email:      inv.Email,
		Role:       inv.Role,
		Accepted:   inv.Accepted,
		AcceptedAt: inv.AcceptedAt,
		CreatedBy:  inv.CreatedBy,
		OwnerID:    inv.OwnerID,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

type postView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ReadingTime int        `json:"reading_time"`
	Author      string     `json:"author"`
	Workspace   string     `json:"workspace"`
	CreatedBy   string     `json:"created_by"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func toPostView(p *repository.Post) postView {
	return postView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		PublishedAt: p.PublishedAt,
		ReadingTime: p.ReadingTime,
		Author:      p.Author,
		Workspace:   p.Workspace,
		CreatedBy:   p.CreatedBy,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}

// pageView envuelve un listado paginado.
type pageView[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
