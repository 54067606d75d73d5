package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davilabs/rapida/internal/domain/repository"
)

type personProfileRepo struct{ col *mongo.Collection }

// personProfileDoc embebe todas las colecciones anidadas. Los nombres de
// campo son los del shape canónico; el motor relacional los reparte en
// tablas hijas con sus propios nombres de columna.
type personProfileDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"userId"`
	UserName      string             `bson:"userName"`
	PersonName    string             `bson:"personName,omitempty"`
	Nickname      string             `bson:"personNickname,omitempty"`
	Gender        string             `bson:"gender,omitempty"`
	Birthday      *time.Time         `bson:"birthday,omitempty"`
	MaritalStatus string             `bson:"maritalStatus,omitempty"`
	MotherName    string             `bson:"motherName,omitempty"`
	Description   string             `bson:"description,omitempty"`

	Professions  []personJobDoc         `bson:"professions,omitempty"`
	Educations   []personEducationDoc   `bson:"personEducations,omitempty"`
	Courses      []personCourseDoc      `bson:"personCourses,omitempty"`
	BankDataOne  *personBankDataDoc     `bson:"bankDataOne,omitempty"`
	BankDataTwo  *personBankDataDoc     `bson:"bankDataTwo,omitempty"`
	RelatedFiles []personRelatedFileDoc `bson:"relatedFiles,omitempty"`

	CreatedBy string     `bson:"createdBy"`
	OwnerID   string     `bson:"ownerId"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`
}

type personJobDoc struct {
	JobID       string `bson:"jobId,omitempty"`
	StartMonth  int    `bson:"jobStartDateMonth,omitempty"`
	StartYear   int    `bson:"jobStartDateYear,omitempty"`
	FinishMonth int    `bson:"jobFinishDateMonth,omitempty"`
	FinishYear  int    `bson:"jobFinishDateYear,omitempty"`
	Description string `bson:"jobDescription,omitempty"`
}

type personEducationDoc struct {
	Institution     string     `bson:"personEducationInstitution,omitempty"`
	Course          string     `bson:"personEducationCourse,omitempty"`
	StartDate       *time.Time `bson:"personEducationStartDate,omitempty"`
	FinishDate      *time.Time `bson:"personEducationFinishDate,omitempty"`
	Description     string     `bson:"personEducationDescription,omitempty"`
	CertificateFile string     `bson:"personEducationCertificateFile,omitempty"`
}

type personCourseDoc struct {
	Institution     string     `bson:"personCourseInstitution,omitempty"`
	Name            string     `bson:"personCourseName,omitempty"`
	StartDate       *time.Time `bson:"personCourseStartDate,omitempty"`
	FinishDate      *time.Time `bson:"personCourseFinishDate,omitempty"`
	CertificateFile string     `bson:"personCourseCertificateFile,omitempty"`
}

type personBankDataDoc struct {
	BankName    string `bson:"bankName,omitempty"`
	Branch      string `bson:"bankBranch,omitempty"`
	Account     string `bson:"bankAccount,omitempty"`
	AccountType string `bson:"bankAccountType,omitempty"`
	Pix         string `bson:"bankPix,omitempty"`
}

type personRelatedFileDoc struct {
	Description string `bson:"filesDescription,omitempty"`
	FileName    string `bson:"relatedFilesFiles,omitempty"`
}

// ─── Conversiones doc ↔ dominio ───

func personJobsToDocs(jobs []repository.PersonJob) []personJobDoc {
	if jobs == nil {
		return nil
	}
	out := make([]personJobDoc, len(jobs))
	for i, j := range jobs {
		out[i] = personJobDoc(j)
	}
	return out
}

func personJobsToDomain(docs []personJobDoc) []repository.PersonJob {
	if docs == nil {
		return nil
	}
	out := make([]repository.PersonJob, len(docs))
	for i, d := range docs {
		out[i] = repository.PersonJob(d)
	}
	return out
}

func personEducationsToDocs(edus []repository.PersonEducation) []personEducationDoc {
	if edus == nil {
		return nil
	}
	out := make([]personEducationDoc, len(edus))
	for i, e := range edus {
		out[i] = personEducationDoc(e)
	}
	return out
}

func personEducationsToDomain(docs []personEducationDoc) []repository.PersonEducation {
	if docs == nil {
		return nil
	}
	out := make([]repository.PersonEducation, len(docs))
	for i, d := range docs {
		out[i] = repository.PersonEducation(d)
	}
	return out
}

func personCoursesToDocs(courses []repository.PersonCourse) []personCourseDoc {
	if courses == nil {
		return nil
	}
	out := make([]personCourseDoc, len(courses))
	for i, c := range courses {
		out[i] = personCourseDoc(c)
	}
	return out
}

func personCoursesToDomain(docs []personCourseDoc) []repository.PersonCourse {
	if docs == nil {
		return nil
	}
	out := make([]repository.PersonCourse, len(docs))
	for i, d := range docs {
		out[i] = repository.PersonCourse(d)
	}
	return out
}

func personBankToDoc(b *repository.PersonBankData) *personBankDataDoc {
	if b == nil {
		return nil
	}
	d := personBankDataDoc(*b)
	return &d
}

func personBankToDomain(d *personBankDataDoc) *repository.PersonBankData {
	if d == nil {
		return nil
	}
	b := repository.PersonBankData(*d)
	return &b
}

func personFilesToDocs(files []repository.PersonRelatedFile) []personRelatedFileDoc {
	if files == nil {
		return nil
	}
	out := make([]personRelatedFileDoc, len(files))
	for i, f := range files {
		out[i] = personRelatedFileDoc(f)
	}
	return out
}

func personFilesToDomain(docs []personRelatedFileDoc) []repository.PersonRelatedFile {
	if docs == nil {
		return nil
	}
	out := make([]repository.PersonRelatedFile, len(docs))
	for i, d := range docs {
		out[i] = repository.PersonRelatedFile(d)
	}
	return out
}

func (d *personProfileDoc) toDomain() *repository.PersonProfile {
	return &repository.PersonProfile{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		UserName:      d.UserName,
		PersonName:    d.PersonName,
		Nickname:      d.Nickname,
		Gender:        d.Gender,
		Birthday:      d.Birthday,
		MaritalStatus: d.MaritalStatus,
		MotherName:    d.MotherName,
		Description:   d.Description,
		Professions:   personJobsToDomain(d.Professions),
		Educations:    personEducationsToDomain(d.Educations),
		Courses:       personCoursesToDomain(d.Courses),
		BankDataOne:   personBankToDomain(d.BankDataOne),
		BankDataTwo:   personBankToDomain(d.BankDataTwo),
		RelatedFiles:  personFilesToDomain(d.RelatedFiles),
		CreatedBy:     d.CreatedBy,
		OwnerID:       d.OwnerID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
	}
}

// ─── PersonProfileRepository ───

func (r *personProfileRepo) Create(ctx context.Context, input repository.CreatePersonProfileInput) (*repository.PersonProfile, error) {
	now := time.Now().UTC()
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}
	doc := personProfileDoc{
		ID:            primitive.NewObjectID(),
		UserID:        input.UserID,
		UserName:      input.UserName,
		PersonName:    input.PersonName,
		Nickname:      input.Nickname,
		Gender:        input.Gender,
		Birthday:      input.Birthday,
		MaritalStatus: input.MaritalStatus,
		MotherName:    input.MotherName,
		Description:   input.Description,
		Professions:   personJobsToDocs(input.Professions),
		Educations:    personEducationsToDocs(input.Educations),
		Courses:       personCoursesToDocs(input.Courses),
		BankDataOne:   personBankToDoc(input.BankDataOne),
		BankDataTwo:   personBankToDoc(input.BankDataTwo),
		RelatedFiles:  personFilesToDocs(input.RelatedFiles),
		CreatedBy:     input.CreatedBy,
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create person profile", err)
	}
	return doc.toDomain(), nil
}

func (r *personProfileRepo) FindByID(ctx context.Context, id string) (*repository.PersonProfile, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc personProfileDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		return nil, mapErr("find person profile by id", err)
	}
	return doc.toDomain(), nil
}

func (r *personProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.PersonProfile, error) {
	var doc personProfileDoc
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		return nil, mapErr("find person profile by userId", err)
	}
	return doc.toDomain(), nil
}

func (r *personProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.PersonProfile, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, mapErr("find person profiles by userIds", err)
	}
	return decodePersonProfiles(ctx, cur)
}

func (r *personProfileRepo) Update(ctx context.Context, id string, input repository.UpdatePersonProfileInput) (*repository.PersonProfile, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.UserName != nil {
		set["userName"] = *input.UserName
	}
	if input.PersonName != nil {
		set["personName"] = *input.PersonName
	}
	if input.Nickname != nil {
		set["personNickname"] = *input.Nickname
	}
	if input.Gender != nil {
		set["gender"] = *input.Gender
	}
	if input.Birthday != nil {
		set["birthday"] = *input.Birthday
	}
	if input.MaritalStatus != nil {
		set["maritalStatus"] = *input.MaritalStatus
	}
	if input.MotherName != nil {
		set["motherName"] = *input.MotherName
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	// Colecciones anidadas: reemplazo completo, sin diff por elemento.
	if input.Professions != nil {
		set["professions"] = personJobsToDocs(*input.Professions)
	}
	if input.Educations != nil {
		set["personEducations"] = personEducationsToDocs(*input.Educations)
	}
	if input.Courses != nil {
		set["personCourses"] = personCoursesToDocs(*input.Courses)
	}
	if input.BankDataOne != nil {
		set["bankDataOne"] = personBankToDoc(input.BankDataOne)
	}
	if input.BankDataTwo != nil {
		set["bankDataTwo"] = personBankToDoc(input.BankDataTwo)
	}
	if input.RelatedFiles != nil {
		set["relatedFiles"] = personFilesToDocs(*input.RelatedFiles)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc personProfileDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update person profile", err)
	}
	return doc.toDomain(), nil
}

// Delete en mongo es físico: el documento embebe todo, no hay hijas que
// limpiar.
func (r *personProfileRepo) Delete(ctx context.Context, id string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapErr("delete person profile", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *personProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return mapErr("delete person profile by userId", err)
	}
	return nil
}

func (r *personProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.PersonProfile], error) {
	filter := bson.M{"userName": bson.M{"$regex": pattern, "$options": "i"}}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, mapErr("count person profiles by username", err)
	}

	cur, err := r.col.Find(ctx, filter, findOpts(page, limit))
	if err != nil {
		return nil, mapErr("find person profiles by username", err)
	}
	items, err := decodePersonProfiles(ctx, cur)
	if err != nil {
		return nil, err
	}
	return &repository.ProfilePage[repository.PersonProfile]{Items: items, Total: total}, nil
}

// ─── Cascada ───

func (r *personProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$set": bson.M{"deletedAt": at}})
	if err != nil {
		return mapErr("soft delete person profiles by creator", err)
	}
	return nil
}

func (r *personProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$unset": bson.M{"deletedAt": ""}})
	if err != nil {
		return mapErr("restore person profiles by creator", err)
	}
	return nil
}

func (r *personProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"createdBy": userID})
	if err != nil {
		return mapErr("hard delete person profiles by creator", err)
	}
	return nil
}

func decodePersonProfiles(ctx context.Context, cur *mongo.Cursor) ([]repository.PersonProfile, error) {
	defer cur.Close(ctx)
	var out []repository.PersonProfile
	for cur.Next(ctx) {
		var doc personProfileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode person profile", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate person profiles", err)
	}
	return out, nil
}
