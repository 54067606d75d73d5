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

type invitationRepo struct{ col *mongo.Collection }

type invitationDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	Role       string             `bson:"role"`
	Accepted   bool               `bson:"accepted"`
	AcceptedAt *time.Time         `bson:"acceptedAt,omitempty"`
	CreatedBy  string             `bson:"createdBy"`
	OwnerID    string             `bson:"ownerId"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d *invitationDoc) toDomain() *repository.Invitation {
	return &repository.Invitation{
		ID:         d.ID.Hex(),
		Email:      d.Email,
		Role:       d.Role,
		Accepted:   d.Accepted,
		AcceptedAt: d.AcceptedAt,
		CreatedBy:  d.CreatedBy,
		OwnerID:    d.OwnerID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func invitationFilterQuery(filter repository.InvitationFilter) bson.M {
	q := bson.M{}
	if filter.Email != nil {
		q["email"] = *filter.Email
	}
	if filter.Role != nil {
		q["role"] = *filter.Role
	}
	if filter.Accepted != nil {
		q["accepted"] = *filter.Accepted
	}
	if filter.CreatedBy != nil {
		q["createdBy"] = *filter.CreatedBy
	}
	if filter.OwnerID != nil {
		q["ownerId"] = *filter.OwnerID
	}
	return q
}

func (r *invitationRepo) Create(ctx context.Context, input repository.CreateInvitationInput) (*repository.Invitation, error) {
	now := time.Now().UTC()
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = input.CreatedBy
	}
	doc := invitationDoc{
		ID:        primitive.NewObjectID(),
		Email:     input.Email,
		Role:      input.Role,
		CreatedBy: input.CreatedBy,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create invitation", err)
	}
	return doc.toDomain(), nil
}

func (r *invitationRepo) FindByID(ctx context.Context, id string) (*repository.Invitation, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc invitationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		return nil, mapErr("find invitation by id", err)
	}
	return doc.toDomain(), nil
}

func (r *invitationRepo) FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc invitationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID, "ownerId": ownerID}).Decode(&doc); err != nil {
		return nil, mapErr("find invitation by id and owner", err)
	}
	return doc.toDomain(), nil
}

func (r *invitationRepo) FindByEmail(ctx context.Context, email string) (*repository.Invitation, error) {
	var doc invitationDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, mapErr("find invitation by email", err)
	}
	return doc.toDomain(), nil
}

func (r *invitationRepo) FindAll(ctx context.Context, filter repository.InvitationFilter) ([]repository.Invitation, error) {
	cur, err := r.col.Find(ctx, invitationFilterQuery(filter), findOpts(filter.Page, filter.Limit))
	if err != nil {
		return nil, mapErr("find invitations", err)
	}
	defer cur.Close(ctx)

	var out []repository.Invitation
	for cur.Next(ctx) {
		var doc invitationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode invitation", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate invitations", err)
	}
	return out, nil
}

func (r *invitationRepo) Count(ctx context.Context, filter repository.InvitationFilter) (int64, error) {
	total, err := r.col.CountDocuments(ctx, invitationFilterQuery(filter))
	if err != nil {
		return 0, mapErr("count invitations", err)
	}
	return total, nil
}

// Update rechaza invitaciones ya aceptadas: son inmutables.
func (r *invitationRepo) Update(ctx context.Context, id string, input repository.UpdateInvitationInput) (*repository.Invitation, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Accepted {
		return nil, repository.ErrImmutable
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Role != nil {
		set["role"] = *input.Role
	}
	if input.Accepted != nil {
		set["accepted"] = *input.Accepted
	}
	if input.AcceptedAt != nil {
		set["acceptedAt"] = *input.AcceptedAt
	}

	objID, _ := oid(id)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc invitationDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update invitation", err)
	}
	return doc.toDomain(), nil
}

func (r *invitationRepo) Delete(ctx context.Context, id string) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Accepted {
		return repository.ErrImmutable
	}

	objID, _ := oid(id)
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return mapErr("delete invitation", err)
	}
	return nil
}

// HardDeleteByCreator: las invitaciones no tienen deletedAt, la cascada
// degrada a borrado físico.
func (r *invitationRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"createdBy": userID})
	if err != nil {
		return mapErr("hard delete invitations by creator", err)
	}
	return nil
}
