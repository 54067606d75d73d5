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

type companyProfileRepo struct{ col *mongo.Collection }

type companyProfileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	UserName    string             `bson:"userName"`
	CompanyName string             `bson:"companyName,omitempty"`
	TradeName   string             `bson:"tradeName,omitempty"`
	CNPJ        string             `bson:"cnpj,omitempty"`
	Description string             `bson:"description,omitempty"`

	BankDataOne  *companyBankDataDoc     `bson:"bankDataOne,omitempty"`
	BankDataTwo  *companyBankDataDoc     `bson:"bankDataTwo,omitempty"`
	RelatedFiles []companyRelatedFileDoc `bson:"relatedFiles,omitempty"`

	CreatedBy string     `bson:"createdBy"`
	OwnerID   string     `bson:"ownerId"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`
}

type companyBankDataDoc struct {
	BankName    string `bson:"bankName,omitempty"`
	Branch      string `bson:"bankBranch,omitempty"`
	Account     string `bson:"bankAccount,omitempty"`
	AccountType string `bson:"bankAccountType,omitempty"`
	Pix         string `bson:"bankPix,omitempty"`
}

type companyRelatedFileDoc struct {
	Description string `bson:"filesDescription,omitempty"`
	FileName    string `bson:"relatedFilesFiles,omitempty"`
}

func companyBankToDoc(b *repository.CompanyBankData) *companyBankDataDoc {
	if b == nil {
		return nil
	}
	d := companyBankDataDoc(*b)
	return &d
}

func companyBankToDomain(d *companyBankDataDoc) *repository.CompanyBankData {
	if d == nil {
		return nil
	}
	b := repository.CompanyBankData(*d)
	return &b
}

func companyFilesToDocs(files []repository.CompanyRelatedFile) []companyRelatedFileDoc {
	if files == nil {
		return nil
	}
	out := make([]companyRelatedFileDoc, len(files))
	for i, f := range files {
		out[i] = companyRelatedFileDoc(f)
	}
	return out
}

func companyFilesToDomain(docs []companyRelatedFileDoc) []repository.CompanyRelatedFile {
	if docs == nil {
		return nil
	}
	out := make([]repository.CompanyRelatedFile, len(docs))
	for i, d := range docs {
		out[i] = repository.CompanyRelatedFile(d)
	}
	return out
}

func (d *companyProfileDoc) toDomain() *repository.CompanyProfile {
	return &repository.CompanyProfile{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		UserName:     d.UserName,
		CompanyName:  d.CompanyName,
		TradeName:    d.TradeName,
		CNPJ:         d.CNPJ,
		Description:  d.Description,
		BankDataOne:  companyBankToDomain(d.BankDataOne),
		BankDataTwo:  companyBankToDomain(d.BankDataTwo),
		RelatedFiles: companyFilesToDomain(d.RelatedFiles),
		CreatedBy:    d.CreatedBy,
		OwnerID:      d.OwnerID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		DeletedAt:    d.DeletedAt,
	}
}

func (r *companyProfileRepo) Create(ctx context.Context, input repository.CreateCompanyProfileInput) (*repository.CompanyProfile, error) {
	now := time.Now().UTC()
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}
	doc := companyProfileDoc{
		ID:           primitive.NewObjectID(),
		UserID:       input.UserID,
		UserName:     input.UserName,
		CompanyName:  input.CompanyName,
		TradeName:    input.TradeName,
		CNPJ:         input.CNPJ,
		Description:  input.Description,
		BankDataOne:  companyBankToDoc(input.BankDataOne),
		BankDataTwo:  companyBankToDoc(input.BankDataTwo),
		RelatedFiles: companyFilesToDocs(input.RelatedFiles),
		CreatedBy:    input.CreatedBy,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create company profile", err)
	}
	return doc.toDomain(), nil
}

func (r *companyProfileRepo) FindByID(ctx context.Context, id string) (*repository.CompanyProfile, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc companyProfileDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		return nil, mapErr("find company profile by id", err)
	}
	return doc.toDomain(), nil
}

func (r *companyProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.CompanyProfile, error) {
	var doc companyProfileDoc
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		return nil, mapErr("find company profile by userId", err)
	}
	return doc.toDomain(), nil
}

func (r *companyProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.CompanyProfile, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, mapErr("find company profiles by userIds", err)
	}
	return decodeCompanyProfiles(ctx, cur)
}

func (r *companyProfileRepo) Update(ctx context.Context, id string, input repository.UpdateCompanyProfileInput) (*repository.CompanyProfile, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.UserName != nil {
		set["userName"] = *input.UserName
	}
	if input.CompanyName != nil {
		set["companyName"] = *input.CompanyName
	}
	if input.TradeName != nil {
		set["tradeName"] = *input.TradeName
	}
	if input.CNPJ != nil {
		set["cnpj"] = *input.CNPJ
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.BankDataOne != nil {
		set["bankDataOne"] = companyBankToDoc(input.BankDataOne)
	}
	if input.BankDataTwo != nil {
		set["bankDataTwo"] = companyBankToDoc(input.BankDataTwo)
	}
	if input.RelatedFiles != nil {
		set["relatedFiles"] = companyFilesToDocs(*input.RelatedFiles)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc companyProfileDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update company profile", err)
	}
	return doc.toDomain(), nil
}

func (r *companyProfileRepo) Delete(ctx context.Context, id string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapErr("delete company profile", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *companyProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return mapErr("delete company profile by userId", err)
	}
	return nil
}

func (r *companyProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.CompanyProfile], error) {
	filter := bson.M{"userName": bson.M{"$regex": pattern, "$options": "i"}}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, mapErr("count company profiles by username", err)
	}

	cur, err := r.col.Find(ctx, filter, findOpts(page, limit))
	if err != nil {
		return nil, mapErr("find company profiles by username", err)
	}
	items, err := decodeCompanyProfiles(ctx, cur)
	if err != nil {
		return nil, err
	}
	return &repository.ProfilePage[repository.CompanyProfile]{Items: items, Total: total}, nil
}

func (r *companyProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$set": bson.M{"deletedAt": at}})
	if err != nil {
		return mapErr("soft delete company profiles by creator", err)
	}
	return nil
}

func (r *companyProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$unset": bson.M{"deletedAt": ""}})
	if err != nil {
		return mapErr("restore company profiles by creator", err)
	}
	return nil
}

func (r *companyProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"createdBy": userID})
	if err != nil {
		return mapErr("hard delete company profiles by creator", err)
	}
	return nil
}

func decodeCompanyProfiles(ctx context.Context, cur *mongo.Cursor) ([]repository.CompanyProfile, error) {
	defer cur.Close(ctx)
	var out []repository.CompanyProfile
	for cur.Next(ctx) {
		var doc companyProfileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode company profile", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate company profiles", err)
	}
	return out, nil
}
