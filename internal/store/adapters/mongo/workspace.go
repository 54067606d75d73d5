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

type workspaceRepo struct{ col *mongo.Collection }

type workspaceDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Owner     string             `bson:"owner"`
	Name      string             `bson:"name,omitempty"`
	Team      []string           `bson:"team"`
	ACL       []aclEntryDoc      `bson:"acl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type aclEntryDoc struct {
	UserID string `bson:"userId"`
	Role   string `bson:"role"`
}

func aclToDocs(acl []repository.ACLEntry) []aclEntryDoc {
	if acl == nil {
		return nil
	}
	out := make([]aclEntryDoc, len(acl))
	for i, e := range acl {
		out[i] = aclEntryDoc(e)
	}
	return out
}

func aclToDomain(docs []aclEntryDoc) []repository.ACLEntry {
	out := make([]repository.ACLEntry, len(docs))
	for i, d := range docs {
		out[i] = repository.ACLEntry(d)
	}
	return out
}

func (d *workspaceDoc) toDomain() *repository.Workspace {
	team := d.Team
	if team == nil {
		team = []string{}
	}
	return &repository.Workspace{
		ID:        d.ID.Hex(),
		Owner:     d.Owner,
		Name:      d.Name,
		Team:      team,
		ACL:       aclToDomain(d.ACL),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *workspaceRepo) Create(ctx context.Context, input repository.CreateWorkspaceInput) (*repository.Workspace, error) {
	now := time.Now().UTC()
	team := input.Team
	if team == nil {
		team = []string{}
	}
	doc := workspaceDoc{
		ID:        primitive.NewObjectID(),
		Owner:     input.Owner,
		Name:      input.Name,
		Team:      team,
		ACL:       aclToDocs(input.ACL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create workspace", err)
	}
	return doc.toDomain(), nil
}

func (r *workspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc workspaceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		return nil, mapErr("find workspace by id", err)
	}
	return doc.toDomain(), nil
}

func (r *workspaceRepo) FindByOwner(ctx context.Context, owner string) (*repository.Workspace, error) {
	var doc workspaceDoc
	if err := r.col.FindOne(ctx, bson.M{"owner": owner}).Decode(&doc); err != nil {
		return nil, mapErr("find workspace by owner", err)
	}
	return doc.toDomain(), nil
}

// FindByTeamUser busca workspaces donde el usuario es dueño o integrante.
func (r *workspaceRepo) FindByTeamUser(ctx context.Context, userID string) ([]repository.Workspace, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner": userID},
		bson.M{"team": userID},
	}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, mapErr("find workspaces by team user", err)
	}
	defer cur.Close(ctx)

	var out []repository.Workspace
	for cur.Next(ctx) {
		var doc workspaceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode workspace", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate workspaces", err)
	}
	return out, nil
}

func (r *workspaceRepo) Update(ctx context.Context, id string, input repository.UpdateWorkspaceInput) (*repository.Workspace, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Team != nil {
		set["team"] = *input.Team
	}
	if input.ACL != nil {
		set["acl"] = aclToDocs(*input.ACL)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc workspaceDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update workspace", err)
	}
	return doc.toDomain(), nil
}

func (r *workspaceRepo) Delete(ctx context.Context, id string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapErr("delete workspace", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workspaceRepo) AddTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	objID, err := oid(workspaceID)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$addToSet": bson.M{"team": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc workspaceDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&doc); err != nil {
		return nil, mapErr("add team user", err)
	}
	return doc.toDomain(), nil
}

func (r *workspaceRepo) RemoveTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	objID, err := oid(workspaceID)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$pull": bson.M{"team": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc workspaceDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&doc); err != nil {
		return nil, mapErr("remove team user", err)
	}
	return doc.toDomain(), nil
}
