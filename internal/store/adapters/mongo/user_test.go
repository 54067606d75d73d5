package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// El shape de salida es el mismo que en los motores relacionales: ID como
// string y los mismos campos, sin filtrar el ObjectID nativo.
func TestUserDoc_ToDomain_CanonicalShape(t *testing.T) {
	objID := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	deleted := now.Add(-time.Hour)

	doc := userDoc{
		ID:        objID,
		Email:     "ana@example.com",
		Password:  "$2a$10$hash",
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: &deleted,
	}

	u := doc.toDomain()
	require.Equal(t, objID.Hex(), u.ID)
	require.Len(t, u.ID, 24)
	require.Equal(t, "ana@example.com", u.Email)
	require.Equal(t, "$2a$10$hash", u.PasswordHash)
	require.True(t, u.Verified)
	require.Equal(t, now, u.CreatedAt)
	require.NotNil(t, u.DeletedAt)
	require.True(t, deleted.Equal(*u.DeletedAt))
}

// Ida y vuelta por BSON: los tags del documento persisten los nombres de
// campo del esquema original (_id, password, deletedAt...).
func TestUserDoc_BSONRoundTrip(t *testing.T) {
	objID := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	raw, err := bson.Marshal(userDoc{
		ID:        objID,
		Email:     "ana@example.com",
		Password:  "$2a$10$hash",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	require.Equal(t, objID, m["_id"])
	require.Equal(t, "ana@example.com", m["email"])
	require.Equal(t, "$2a$10$hash", m["password"])
	// deletedAt nil se omite del documento, no queda como null.
	require.NotContains(t, m, "deletedAt")

	var back userDoc
	require.NoError(t, bson.Unmarshal(raw, &back))
	require.Equal(t, objID, back.ID)
	require.Nil(t, back.DeletedAt)
}

func TestOid_RejectsMalformedID(t *testing.T) {
	_, err := oid("no-es-hex")
	require.ErrorIs(t, err, repository.ErrNotFound)

	objID, err := oid(primitive.NewObjectID().Hex())
	require.NoError(t, err)
	require.False(t, objID.IsZero())
}
