package repository

import (
	"context"
	"time"
)

// PersonProfile representa el perfil de persona física asociado a un usuario.
// En MongoDB las colecciones anidadas (trabajos, formaciones, cursos, datos
// bancarios, archivos) se guardan embebidas; en los motores relacionales se
// descomponen en tablas hijas con FK al perfil.
type PersonProfile struct {
	ID            string
	UserID        string
	UserName      string
	PersonName    string
	Nickname      string
	Gender        string
	Birthday      *time.Time
	MaritalStatus string
	MotherName    string
	Description   string

	Professions  []PersonJob
	Educations   []PersonEducation
	Courses      []PersonCourse
	BankDataOne  *PersonBankData
	BankDataTwo  *PersonBankData
	RelatedFiles []PersonRelatedFile

	CreatedBy string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// PersonJob es una experiencia laboral. Las fechas se guardan como pares
// mes/año, igual en ambos motores.
type PersonJob struct {
	JobID       string
	StartMonth  int
	StartYear   int
	FinishMonth int
	FinishYear  int
	Description string
}

// PersonEducation es una formación académica. El motor relacional guarda las
// fechas como pares mes/año y las reconstruye a time.Time en la lectura.
type PersonEducation struct {
	Institution     string
	Course          string
	StartDate       *time.Time
	FinishDate      *time.Time
	Description     string
	CertificateFile string
}

// PersonCourse es un curso complementario.
type PersonCourse struct {
	Institution     string
	Name            string
	StartDate       *time.Time
	FinishDate      *time.Time
	CertificateFile string
}

// PersonBankData son los datos bancarios. Un perfil admite hasta dos juegos
// (BankDataOne/BankDataTwo): en el motor relacional son dos filas ordenadas
// por id en la tabla hija.
type PersonBankData struct {
	BankName    string
	Branch      string
	Account     string
	AccountType string
	Pix         string
}

// PersonRelatedFile es un archivo asociado al perfil.
type PersonRelatedFile struct {
	Description string
	FileName    string
}

// CreatePersonProfileInput contiene los datos para crear un perfil de persona.
type CreatePersonProfileInput struct {
	UserID        string
	UserName      string
	PersonName    string
	Nickname      string
	Gender        string
	Birthday      *time.Time
	MaritalStatus string
	MotherName    string
	Description   string

	Professions  []PersonJob
	Educations   []PersonEducation
	Courses      []PersonCourse
	BankDataOne  *PersonBankData
	BankDataTwo  *PersonBankData
	RelatedFiles []PersonRelatedFile

	CreatedBy string
	OwnerID   string
}

// UpdatePersonProfileInput contiene los campos actualizables (merge parcial).
// Para las colecciones anidadas, nil = sin tocar; un slice no-nil reemplaza
// el conjunto completo (no hay diff por elemento).
type UpdatePersonProfileInput struct {
	UserName      *string
	PersonName    *string
	Nickname      *string
	Gender        *string
	Birthday      *time.Time
	MaritalStatus *string
	MotherName    *string
	Description   *string

	Professions  *[]PersonJob
	Educations   *[]PersonEducation
	Courses      *[]PersonCourse
	BankDataOne  *PersonBankData
	BankDataTwo  *PersonBankData
	RelatedFiles *[]PersonRelatedFile
}

// ProfilePage es el resultado paginado de una búsqueda de perfiles.
type ProfilePage[T any] struct {
	Items []T
	Total int64
}

// PersonProfileRepository define operaciones sobre perfiles de persona.
type PersonProfileRepository interface {
	Create(ctx context.Context, input CreatePersonProfileInput) (*PersonProfile, error)

	// FindByID retorna ErrNotFound si no existe.
	FindByID(ctx context.Context, id string) (*PersonProfile, error)

	// FindByUserID busca el perfil del usuario dado.
	// Retorna ErrNotFound si no existe.
	FindByUserID(ctx context.Context, userID string) (*PersonProfile, error)

	// FindByUserIDs busca en lote. Usuarios sin perfil simplemente no
	// aparecen en el resultado.
	FindByUserIDs(ctx context.Context, userIDs []string) ([]PersonProfile, error)

	// Update aplica un merge parcial. Las colecciones anidadas no-nil se
	// reemplazan por completo (delete + insert en el motor relacional).
	Update(ctx context.Context, id string, input UpdatePersonProfileInput) (*PersonProfile, error)

	// Delete elimina el perfil y sus colecciones anidadas.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID elimina el perfil del usuario si existe. No es error
	// que no exista.
	DeleteByUserID(ctx context.Context, userID string) error

	// FindByUsernameLike busca por coincidencia parcial de userName,
	// case-insensitive. page es 1-based; page/limit nil = sin paginar.
	FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*ProfilePage[PersonProfile], error)

	SoftDeletableRepository
}
