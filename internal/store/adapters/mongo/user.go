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

type userRepo struct{ col *mongo.Collection }

// userDoc es el shape persistido de una cuenta.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Verified  bool               `bson:"verified"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
	DeletedAt *time.Time         `bson:"deletedAt,omitempty"`
}

func (d *userDoc) toDomain() *repository.User {
	return &repository.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Verified:     d.Verified,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		DeletedAt:    d.DeletedAt,
	}
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Email:     input.Email,
		Password:  input.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create user", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		return nil, mapErr("find user by id", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, mapErr("find user by email", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) Update(ctx context.Context, id string, input repository.UpdateUserInput) (*repository.User, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.PasswordHash != nil {
		set["password"] = *input.PasswordHash
	}
	if input.Verified != nil {
		set["verified"] = *input.Verified
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update user", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) SetDeletedAt(ctx context.Context, id string, at *time.Time) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}}
	if at != nil {
		update["$set"].(bson.M)["deletedAt"] = *at
	} else {
		update["$unset"] = bson.M{"deletedAt": ""}
	}

	res, err := r.col.UpdateByID(ctx, objID, update)
	if err != nil {
		return mapErr("set user deletedAt", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete es borrado lógico: estampa deletedAt. El borrado físico de la
// cuenta pasa solo por HardDelete.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.SetDeletedAt(ctx, id, &now)
}

func (r *userRepo) HardDelete(ctx context.Context, id string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapErr("hard delete user", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
