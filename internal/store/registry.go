// Package store provee el registry de adaptadores de base de datos.
//
// Cada adapter se registra en init() y se selecciona por nombre al arrancar
// el proceso. Un driver configurado sin adapter registrado es un error de
// configuración y corta el wiring: nunca llega a tiempo de request.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// Adapter representa un motor de almacenamiento capaz de crear repositorios.
type Adapter interface {
	// Name retorna el nombre del adapter (ej: "mongo", "postgres", "mysql").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection representa una conexión activa.
// Provee acceso a los repositorios implementados por el adapter.
type AdapterConnection interface {
	// Name retorna el nombre del adapter.
	Name() string

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// ─── Repositorios ───

	Users() repository.UserRepository
	PersonProfiles() repository.PersonProfileRepository
	CompanyProfiles() repository.CompanyProfileRepository
	Workspaces() repository.WorkspaceRepository
	Invitations() repository.InvitationRepository
	Posts() repository.PostRepository
	ScheduledDeletions() repository.ScheduledDeletionRepository
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "mongo", "postgres", "mysql", "noop"
	Name string

	// DSN connection string (motores relacionales)
	DSN string

	// URI y Database (mongo)
	URI      string
	Database string

	// Pool settings (motores relacionales)
	MaxOpenConns int
	MaxIdleConns int
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("store: adapter %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres de todos los adapters registrados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	return names
}

// OpenAdapter abre una conexión usando el adapter especificado en la config.
// Falla acá, en el arranque, si el driver no existe: error de configuración,
// no de runtime.
func OpenAdapter(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("store: adapter %q not registered (have %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
