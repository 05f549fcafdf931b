package graph

import (
	"context"
	"errors"
)

// Sentinel errors every Store implementation wraps
var (
	// ErrNotFound is returned when the addressed record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate record")
)

// PlaceFilter narrows place listings. Empty fields are unconstrained.
type PlaceFilter struct {
	Search string
	Region string
}

// PersonFilter narrows person listings
type PersonFilter struct {
	Search string
	Place  string
}

// EntityFilter narrows entity listings
type EntityFilter struct {
	Search string
	Type   string
	Place  string
}

// RelationshipFilter is a conjunction over the edge columns
type RelationshipFilter struct {
	From         string
	To           string
	FromModel    NodeKind
	ToModel      NodeKind
	Relationship string
}

// PlaceStore persists places and answers hierarchy queries
type PlaceStore interface {
	CreatePlace(ctx context.Context, p Place) (Place, error)
	GetPlace(ctx context.Context, id string) (Place, error)
	UpdatePlace(ctx context.Context, p Place) (Place, error)
	DeletePlace(ctx context.Context, id string) error
	ListPlaces(ctx context.Context, f PlaceFilter, opts ListOptions) ([]Place, int64, error)
	CountSubPlaces(ctx context.Context, id string) (int64, error)
}

// PersonStore persists persons
type PersonStore interface {
	CreatePerson(ctx context.Context, p Person) (Person, error)
	GetPerson(ctx context.Context, id string) (Person, error)
	UpdatePerson(ctx context.Context, p Person) (Person, error)
	// DeletePerson also removes every relationship touching the person
	DeletePerson(ctx context.Context, id string) error
	ListPersons(ctx context.Context, f PersonFilter, opts ListOptions) ([]Person, int64, error)
}

// EntityStore persists entities
type EntityStore interface {
	CreateEntity(ctx context.Context, e Entity) (Entity, error)
	GetEntity(ctx context.Context, id string) (Entity, error)
	UpdateEntity(ctx context.Context, e Entity) (Entity, error)
	// DeleteEntity also removes every relationship touching the entity
	DeleteEntity(ctx context.Context, id string) error
	ListEntities(ctx context.Context, f EntityFilter, opts ListOptions) ([]Entity, int64, error)
}

// CatalogStore persists the two type registries
type CatalogStore interface {
	CreateEntityType(ctx context.Context, t EntityType) (EntityType, error)
	GetEntityType(ctx context.Context, id string) (EntityType, error)
	UpdateEntityType(ctx context.Context, t EntityType) (EntityType, error)
	DeleteEntityType(ctx context.Context, id string) error
	ListEntityTypes(ctx context.Context, opts ListOptions) ([]EntityType, int64, error)

	CreateRelationshipType(ctx context.Context, t RelationshipType) (RelationshipType, error)
	GetRelationshipType(ctx context.Context, id string) (RelationshipType, error)
	UpdateRelationshipType(ctx context.Context, t RelationshipType) (RelationshipType, error)
	DeleteRelationshipType(ctx context.Context, id string) error
	ListRelationshipTypes(ctx context.Context, opts ListOptions) ([]RelationshipType, int64, error)
}

// RelationshipStore persists edges. Implementations enforce uniqueness of
// (from, to, relationship) atomically and report violations as ErrDuplicate.
type RelationshipStore interface {
	CreateRelationship(ctx context.Context, r Relationship) (Relationship, error)
	GetRelationship(ctx context.Context, id string) (Relationship, error)
	// FindRelationship returns the edge with the exact triple or ErrNotFound
	FindRelationship(ctx context.Context, fromID, toID, relationshipID string) (Relationship, error)
	UpdateRelationship(ctx context.Context, r Relationship) (Relationship, error)
	DeleteRelationship(ctx context.Context, id string) error
	ListRelationships(ctx context.Context, f RelationshipFilter, opts ListOptions) ([]Relationship, int64, error)
	// ListRelationshipsByNode returns outgoing and incoming edges of node
	ListRelationshipsByNode(ctx context.Context, node NodeRef) ([]Relationship, error)
}

// SearchStore returns every case-insensitive substring match, unpaginated
type SearchStore interface {
	SearchPersons(ctx context.Context, query string) ([]Person, error)
	SearchEntities(ctx context.Context, query string) ([]Entity, error)
	SearchPlaces(ctx context.Context, query string) ([]Place, error)
}

// UserStore persists API accounts
type UserStore interface {
	UpsertUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Store is the full persistence port implemented by sqlstore and neo4jstore
type Store interface {
	PlaceStore
	PersonStore
	EntityStore
	CatalogStore
	RelationshipStore
	SearchStore
	UserStore

	// Migrate creates tables, constraints and indexes
	Migrate(ctx context.Context) error
	// Reset deletes every record
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
