package repository

import (
	"context"
	"time"
)

// CompanyProfile representa el perfil de empresa asociado a un usuario.
type CompanyProfile struct {
	ID          string
	UserID      string
	UserName    string
	CompanyName string
	TradeName   string
	CNPJ        string
	Description string

	BankDataOne  *CompanyBankData
	BankDataTwo  *CompanyBankData
	RelatedFiles []CompanyRelatedFile

	CreatedBy string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// CompanyBankData son los datos bancarios de la empresa.
type CompanyBankData struct {
	BankName    string
	Branch      string
	Account     string
	AccountType string
	Pix         string
}

// CompanyRelatedFile es un archivo asociado al perfil de empresa.
type CompanyRelatedFile struct {
	Description string
	FileName    string
}

// CreateCompanyProfileInput contiene los datos para crear un perfil de empresa.
type CreateCompanyProfileInput struct {
	UserID      string
	UserName    string
	CompanyName string
	TradeName   string
	CNPJ        string
	Description string

	BankDataOne  *CompanyBankData
	BankDataTwo  *CompanyBankData
	RelatedFiles []CompanyRelatedFile

	CreatedBy string
	OwnerID   string
}

// UpdateCompanyProfileInput contiene los campos actualizables (merge parcial).
type UpdateCompanyProfileInput struct {
	UserName    *string
	CompanyName *string
	TradeName   *string
	CNPJ        *string
	Description *string

	BankDataOne  *CompanyBankData
	BankDataTwo  *CompanyBankData
	RelatedFiles *[]CompanyRelatedFile
}

// CompanyProfileRepository define operaciones sobre perfiles de empresa.
// El contrato es simétrico a PersonProfileRepository.
type CompanyProfileRepository interface {
	Create(ctx context.Context, input CreateCompanyProfileInput) (*CompanyProfile, error)
	FindByID(ctx context.Context, id string) (*CompanyProfile, error)
	FindByUserID(ctx context.Context, userID string) (*CompanyProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]CompanyProfile, error)
	Update(ctx context.Context, id string, input UpdateCompanyProfileInput) (*CompanyProfile, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*ProfilePage[CompanyProfile], error)

	SoftDeletableRepository
}
