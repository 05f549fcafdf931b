package sqlstore

import (
	"time"

	"link-graph/backend/internal/graph"

	"gorm.io/datatypes"
)

type PlaceModel struct {
	ID          string                      `gorm:"primaryKey;size:24"`
	Name        string                      `gorm:"not null;index:idx_places_name_region,unique"`
	Description string                      `gorm:"not null;default:''"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	RegionID    string                      `gorm:"not null;default:'';index:idx_places_name_region,unique;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PlaceModel) TableName() string { return "places" }

type EntityTypeModel struct {
	ID          string `gorm:"primaryKey;size:24"`
	Name        string `gorm:"not null;uniqueIndex"`
	Description string `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EntityTypeModel) TableName() string { return "entity_types" }

type RelationshipTypeModel struct {
	ID        string `gorm:"primaryKey;size:24"`
	Name      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RelationshipTypeModel) TableName() string { return "relationship_types" }

type PersonModel struct {
	ID          string                      `gorm:"primaryKey;size:24"`
	FirstName   string                      `gorm:"not null;index"`
	LastName    string                      `gorm:"not null;default:''"`
	Description string                      `gorm:"not null;default:''"`
	DateOfBirth *time.Time
	Websites    datatypes.JSONSlice[string] `gorm:"not null"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	PlaceID     string                      `gorm:"not null;default:'';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PersonModel) TableName() string { return "persons" }

type EntityModel struct {
	ID          string                      `gorm:"primaryKey;size:24"`
	TypeID      string                      `gorm:"not null;index"`
	Name        string                      `gorm:"not null;index"`
	Description string                      `gorm:"not null;default:''"`
	Websites    datatypes.JSONSlice[string] `gorm:"not null"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	PlaceID     string                      `gorm:"not null;default:'';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EntityModel) TableName() string { return "entities" }

type RelationshipModel struct {
	ID                    string `gorm:"primaryKey;size:24"`
	FromID                string `gorm:"not null;index:idx_rel_triple,unique"`
	FromModel             string `gorm:"not null"`
	ToID                  string `gorm:"not null;index:idx_rel_triple,unique;index"`
	ToModel               string `gorm:"not null"`
	RelationshipID        string `gorm:"not null;index:idx_rel_triple,unique"`
	ReverseRelationshipID string `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (RelationshipModel) TableName() string { return "relationships" }

type UserModel struct {
	ID          string `gorm:"primaryKey;size:24"`
	Email       string `gorm:"not null;uniqueIndex"`
	Name        string `gorm:"not null;default:''"`
	Role        string `gorm:"not null;default:'user'"`
	IsActive    bool   `gorm:"not null"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string { return "users" }

// ============================================================================
// Model <-> domain mapping
// ============================================================================

func jsonList(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](s)
}

func plainList(s datatypes.JSONSlice[string]) []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}

func placeModel(p graph.Place) PlaceModel {
	return PlaceModel{
		ID: p.ID, Name: p.Name, Description: p.Description, Images: jsonList(p.Images),
		RegionID: p.Region, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func (m PlaceModel) toDomain() graph.Place {
	return graph.Place{
		ID: m.ID, Name: m.Name, Description: m.Description, Images: plainList(m.Images),
		Region: m.RegionID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func personModel(p graph.Person) PersonModel {
	return PersonModel{
		ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Description: p.Description,
		DateOfBirth: p.DateOfBirth, Websites: jsonList(p.Websites), Images: jsonList(p.Images),
		PlaceID: p.Place, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func (m PersonModel) toDomain() graph.Person {
	return graph.Person{
		ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Description: m.Description,
		DateOfBirth: m.DateOfBirth, Websites: plainList(m.Websites), Images: plainList(m.Images),
		Place: m.PlaceID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func entityModel(e graph.Entity) EntityModel {
	return EntityModel{
		ID: e.ID, TypeID: e.Type, Name: e.Name, Description: e.Description,
		Websites: jsonList(e.Websites), Images: jsonList(e.Images), PlaceID: e.Place,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func (m EntityModel) toDomain() graph.Entity {
	return graph.Entity{
		ID: m.ID, Type: m.TypeID, Name: m.Name, Description: m.Description,
		Websites: plainList(m.Websites), Images: plainList(m.Images), Place: m.PlaceID,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func relationshipModel(r graph.Relationship) RelationshipModel {
	return RelationshipModel{
		ID:                    r.ID,
		FromID:                r.From.ID,
		FromModel:             string(r.From.Kind),
		ToID:                  r.To.ID,
		ToModel:               string(r.To.Kind),
		RelationshipID:        r.Relationship,
		ReverseRelationshipID: r.ReverseRelationship,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func (m RelationshipModel) toDomain() graph.Relationship {
	return graph.Relationship{
		ID:                  m.ID,
		From:                graph.NodeRef{Kind: graph.NodeKind(m.FromModel), ID: m.FromID},
		To:                  graph.NodeRef{Kind: graph.NodeKind(m.ToModel), ID: m.ToID},
		Relationship:        m.RelationshipID,
		ReverseRelationship: m.ReverseRelationshipID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func userModel(u graph.User) UserModel {
	return UserModel{
		ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), IsActive: u.IsActive,
		LastLoginAt: u.LastLoginAt, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (m UserModel) toDomain() graph.User {
	return graph.User{
		ID: m.ID, Email: m.Email, Name: m.Name, Role: graph.Role(m.Role), IsActive: m.IsActive,
		LastLoginAt: m.LastLoginAt, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
