package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// NodeKind names the two record kinds that may sit at either end of a relationship
type NodeKind string

const (
	KindPerson NodeKind = "Person"
	KindEntity NodeKind = "Entity"
)

// Valid reports whether k is one of the edge endpoint kinds
func (k NodeKind) Valid() bool {
	return k == KindPerson || k == KindEntity
}

// ParseNodeKind accepts the canonical model names used on the wire
func ParseNodeKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown node kind %q", s)
	}
	return k, nil
}

// NodeRef points at a Person or Entity. Kind and ID always travel together.
type NodeRef struct {
	Kind NodeKind
	ID   string
}

func (r NodeRef) String() string {
	return string(r.Kind) + ":" + r.ID
}

// Place is a location. Region is the parent place, empty for top-level places.
type Place struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Region      string    `json:"region,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityType categorizes entities ("Company", "Shop")
type EntityType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RelationshipType labels one direction of an edge ("parent", "works at")
type RelationshipType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Person is an individual
type Person struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName,omitempty"`
	Description string     `json:"description,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Websites    []string   `json:"websites"`
	Images      []string   `json:"images"`
	Place       string     `json:"place,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FullName joins first and last name
func (p Person) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Entity is an organization or other non-person actor
type Entity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Websites    []string  `json:"websites"`
	Images      []string  `json:"images"`
	Place       string    `json:"place,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Relationship is one directed edge. ReverseRelationship is the label read from To's side.
type Relationship struct {
	ID                  string
	From                NodeRef
	To                  NodeRef
	Relationship        string
	ReverseRelationship string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type relationshipJSON struct {
	ID                  string    `json:"id"`
	From                string    `json:"from"`
	To                  string    `json:"to"`
	FromModel           NodeKind  `json:"fromModel"`
	ToModel             NodeKind  `json:"toModel"`
	Relationship        string    `json:"relationship"`
	ReverseRelationship string    `json:"reverseRelationship"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// MarshalJSON flattens the endpoint refs into from/fromModel and to/toModel
func (r Relationship) MarshalJSON() ([]byte, error) {
	return json.Marshal(relationshipJSON{
		ID:                  r.ID,
		From:                r.From.ID,
		To:                  r.To.ID,
		FromModel:           r.From.Kind,
		ToModel:             r.To.Kind,
		Relationship:        r.Relationship,
		ReverseRelationship: r.ReverseRelationship,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	})
}

// Role is a user's permission level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an API account able to hold a bearer token
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
