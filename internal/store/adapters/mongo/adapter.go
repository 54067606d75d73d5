// Package mongo implementa el adapter MongoDB (motor documental).
// Usa go.mongodb.org/mongo-driver. Los documentos guardan las colecciones
// anidadas embebidas, con los nombres de campo del shape canónico.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/store"
)

func init() {
	store.RegisterAdapter(&mongoAdapter{})
}

// Nombres de colección, una por tipo de entidad.
const (
	colUsers              = "User"
	colPersonProfiles     = "PersonProfile"
	colCompanyProfiles    = "CompanyProfile"
	colWorkspaces         = "Workspace"
	colInvitations        = "Invitation"
	colPosts              = "Post"
	colScheduledDeletions = "ScheduledDeletion"
)

type mongoAdapter struct{}

func (a *mongoAdapter) Name() string { return "mongo" }

func (a *mongoAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	uri := cfg.URI
	if uri == "" {
		uri = cfg.DSN
	}
	if uri == "" {
		return nil, fmt.Errorf("mongo: URI requerida")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database requerida")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	// Conectar para fallar rápido si hay problema
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	return &mongoConnection{client: client, db: client.Database(cfg.Database)}, nil
}

// mongoConnection representa una conexión activa a MongoDB.
type mongoConnection struct {
	client *mongo.Client
	db     *mongo.Database
}

func (c *mongoConnection) Name() string { return "mongo" }

func (c *mongoConnection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *mongoConnection) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// ─── Repositorios ───

func (c *mongoConnection) Users() repository.UserRepository {
	return &userRepo{col: c.db.Collection(colUsers)}
}

func (c *mongoConnection) PersonProfiles() repository.PersonProfileRepository {
	return &personProfileRepo{col: c.db.Collection(colPersonProfiles)}
}

func (c *mongoConnection) CompanyProfiles() repository.CompanyProfileRepository {
	return &companyProfileRepo{col: c.db.Collection(colCompanyProfiles)}
}

func (c *mongoConnection) Workspaces() repository.WorkspaceRepository {
	return &workspaceRepo{col: c.db.Collection(colWorkspaces)}
}

func (c *mongoConnection) Invitations() repository.InvitationRepository {
	return &invitationRepo{col: c.db.Collection(colInvitations)}
}

func (c *mongoConnection) Posts() repository.PostRepository {
	return &postRepo{col: c.db.Collection(colPosts)}
}

func (c *mongoConnection) ScheduledDeletions() repository.ScheduledDeletionRepository {
	return &scheduledDeletionRepo{col: c.db.Collection(colScheduledDeletions)}
}

// ─── Helpers compartidos ───

// oid parsea un ID externo a ObjectID. Un ID malformado se trata como
// inexistente: los lookups singulares nunca lo convierten en otra cosa.
func oid(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return objID, nil
}

// findOpts arma las opciones de paginación. page es 1-based; page o limit
// nil significa "todo, sin paginar".
func findOpts(page, limit *int) *options.FindOptions {
	opts := options.Find()
	if page != nil && limit != nil {
		opts.SetSkip(int64((*page - 1) * *limit))
		opts.SetLimit(int64(*limit))
	}
	return opts
}

func mapErr(op string, err error) error {
	if err == mongo.ErrNoDocuments {
		return repository.ErrNotFound
	}
	return fmt.Errorf("mongo: %s: %w", op, err)
}
