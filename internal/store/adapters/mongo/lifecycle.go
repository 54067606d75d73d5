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

type scheduledDeletionRepo struct{ col *mongo.Collection }

type scheduledDeletionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	DueAt     time.Time          `bson:"dueAt"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *scheduledDeletionDoc) toDomain() *repository.ScheduledDeletion {
	return &repository.ScheduledDeletion{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		DueAt:     d.DueAt,
		CreatedAt: d.CreatedAt,
	}
}

// Schedule hace upsert por userId: re-agendar pisa la entrada anterior.
func (r *scheduledDeletionRepo) Schedule(ctx context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"dueAt": dueAt},
		"$setOnInsert": bson.M{"userId": userID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc scheduledDeletionDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&doc); err != nil {
		return nil, mapErr("schedule deletion", err)
	}
	return doc.toDomain(), nil
}

func (r *scheduledDeletionRepo) Due(ctx context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	cur, err := r.col.Find(ctx, bson.M{"dueAt": bson.M{"$lte": now}})
	if err != nil {
		return nil, mapErr("find due deletions", err)
	}
	defer cur.Close(ctx)

	var out []repository.ScheduledDeletion
	for cur.Next(ctx) {
		var doc scheduledDeletionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr("decode scheduled deletion", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("iterate scheduled deletions", err)
	}
	return out, nil
}

func (r *scheduledDeletionRepo) Cancel(ctx context.Context, userID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return mapErr("cancel scheduled deletion", err)
	}
	return nil
}
