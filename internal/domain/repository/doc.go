// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (MongoDB, PostgreSQL, MySQL).
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│                    Services                         │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  UserRepository, WorkspaceRepository, PostRepository│
//	└─────────────────────────────────────────────────────┘
//	                        │
//	         ┌──────────────┼──────────────┐
//	         ▼              ▼              ▼
//	┌─────────────┐  ┌─────────────┐  ┌─────────────┐
//	│  adapters/  │  │  adapters/  │  │  adapters/  │
//	│    mongo    │  │     pg      │  │    mysql    │
//	└─────────────┘  └─────────────┘  └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Los FindBy* singulares retornan ErrNotFound, nunca inventan valores
//   - Los IDs son siempre string hacia afuera, sin importar la PK nativa
//   - Errores de dominio están en errors.go
package repository
