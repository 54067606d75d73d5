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

type postRepo struct{ col *mongo.Collection }

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty"`
	ReadingTime int                `bson:"readingTime,omitempty"`
	Author      string             `bson:"author,omitempty"`
	Workspace   string             `bson:"workspace"`
	CreatedBy   string             `bson:"createdBy"`
	OwnerID     string             `bson:"ownerId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty"`
}

func (d *postDoc) toDomain() *repository.Post {
	return &repository.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Content:     d.Content,
		PublishedAt: d.PublishedAt,
		ReadingTime: d.ReadingTime,
		Author:      d.Author,
		Workspace:   d.Workspace,
		CreatedBy:   d.CreatedBy,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		DeletedAt:   d.DeletedAt,
	}
}

func (r *postRepo) Create(ctx context.Context, input repository.CreatePostInput, workspace, createdBy string) (*repository.Post, error) {
	now := time.Now().UTC()
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = createdBy
	}
	doc := postDoc{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Content:     input.Content,
		PublishedAt: input.PublishedAt,
		ReadingTime: input.ReadingTime,
		Author:      input.Author,
		Workspace:   workspace,
		CreatedBy:   createdBy,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr("create post", err)
	}
	return doc.toDomain(), nil
}

// FindAll lista publicaciones del workspace, más recientes primero. El total
// refleja siempre el conteo completo, paginado o no.
func (r *postRepo) FindAll(ctx context.Context, workspace string, page, limit *int) (*repository.PostPage, error) {
	filter := bson.M{"workspace": workspace}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, mapErr("count posts", err)
	}

	opts := findOpts(page, limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("find posts", err)
	}
	defer cur.Close(ctx)

	items := []repository.Post{}
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode post", err)
		}
		items = append(items, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate posts", err)
	}
	return &repository.PostPage{Items: items, Total: total}, nil
}

func (r *postRepo) FindByID(ctx context.Context, id, workspace string) (*repository.Post, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": objID, "workspace": workspace}).Decode(&doc); err != nil {
		return nil, mapErr("find post by id", err)
	}
	return doc.toDomain(), nil
}

func (r *postRepo) Update(ctx context.Context, id string, input repository.UpdatePostInput, workspace string) (*repository.Post, error) {
	objID, err := oid(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Content != nil {
		set["content"] = *input.Content
	}
	if input.PublishedAt != nil {
		set["publishedAt"] = *input.PublishedAt
	}
	if input.ReadingTime != nil {
		set["readingTime"] = *input.ReadingTime
	}
	if input.Author != nil {
		set["author"] = *input.Author
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	filter := bson.M{"_id": objID, "workspace": workspace}
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, mapErr("update post", err)
	}
	return doc.toDomain(), nil
}

func (r *postRepo) Delete(ctx context.Context, id, workspace string) error {
	objID, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objID, "workspace": workspace})
	if err != nil {
		return mapErr("delete post", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ─── Cascada ───

func (r *postRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$set": bson.M{"deletedAt": at}})
	if err != nil {
		return mapErr("soft delete posts by creator", err)
	}
	return nil
}

func (r *postRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"createdBy": userID}, bson.M{"$unset": bson.M{"deletedAt": ""}})
	if err != nil {
		return mapErr("restore posts by creator", err)
	}
	return nil
}

func (r *postRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"createdBy": userID})
	if err != nil {
		return mapErr("hard delete posts by creator", err)
	}
	return nil
}
