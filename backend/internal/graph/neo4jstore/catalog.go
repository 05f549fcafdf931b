package neo4jstore

import (
	"context"
	"fmt"
	"strings"

	"link-graph/backend/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Entity types
// ============================================================================

func entityTypeFromMap(m map[string]interface{}) graph.EntityType {
	return graph.EntityType{
		ID:          getStringFromMap(m, "id", ""),
		Name:        getStringFromMap(m, "name", ""),
		Description: getStringFromMap(m, "description", ""),
		CreatedAt:   getTimeFromMap(m, "created_at"),
		UpdatedAt:   getTimeFromMap(m, "updated_at"),
	}
}

func (s *Store) CreateEntityType(ctx context.Context, t graph.EntityType) (graph.EntityType, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `
		CREATE (n:EntityType {id: $id, name: $name, description: $description, created_at: $now, updated_at: $now})
		RETURN n {.*} AS n
	`, map[string]interface{}{"id": t.ID, "name": t.Name, "description": t.Description, "now": now()}, "n")
	if err != nil {
		return graph.EntityType{}, fmt.Errorf("create entity type: %w", err)
	}
	return entityTypeFromMap(m), nil
}

func (s *Store) GetEntityType(ctx context.Context, id string) (graph.EntityType, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:EntityType {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.EntityType{}, fmt.Errorf("get entity type: %w", err)
	}
	return entityTypeFromMap(m), nil
}

func (s *Store) UpdateEntityType(ctx context.Context, t graph.EntityType) (graph.EntityType, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `
		MATCH (n:EntityType {id: $id})
		SET n.name = $name, n.description = $description, n.updated_at = $now
		RETURN n {.*} AS n
	`, map[string]interface{}{"id": t.ID, "name": t.Name, "description": t.Description, "now": now()}, "n")
	if err != nil {
		return graph.EntityType{}, fmt.Errorf("update entity type: %w", err)
	}
	return entityTypeFromMap(m), nil
}

func (s *Store) DeleteEntityType(ctx context.Context, id string) error {
	if err := s.deleteNode(ctx, "EntityType", id); err != nil {
		return fmt.Errorf("delete entity type: %w", err)
	}
	return nil
}

func (s *Store) ListEntityTypes(ctx context.Context, opts graph.ListOptions) ([]graph.EntityType, int64, error) {
	total, err := s.count(ctx, "MATCH (n:EntityType) RETURN count(n) AS total", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("count entity types: %w", err)
	}

	params := map[string]interface{}{}
	query := "MATCH (n:EntityType) RETURN n {.*} AS n " + orderPage("n", graph.ResourceEntityType, opts, params)
	rows, err := s.collect(ctx, query, params, "n")
	if err != nil {
		return nil, 0, fmt.Errorf("list entity types: %w", err)
	}

	types := make([]graph.EntityType, 0, len(rows))
	for _, m := range rows {
		types = append(types, entityTypeFromMap(m))
	}
	return types, total, nil
}

// ============================================================================
// Relationship types
// ============================================================================

func relationshipTypeFromMap(m map[string]interface{}) graph.RelationshipType {
	return graph.RelationshipType{
		ID:        getStringFromMap(m, "id", ""),
		Name:      getStringFromMap(m, "name", ""),
		CreatedAt: getTimeFromMap(m, "created_at"),
		UpdatedAt: getTimeFromMap(m, "updated_at"),
	}
}

func (s *Store) CreateRelationshipType(ctx context.Context, t graph.RelationshipType) (graph.RelationshipType, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `
		CREATE (n:RelationshipType {id: $id, name: $name, created_at: $now, updated_at: $now})
		RETURN n {.*} AS n
	`, map[string]interface{}{"id": t.ID, "name": t.Name, "now": now()}, "n")
	if err != nil {
		return graph.RelationshipType{}, fmt.Errorf("create relationship type: %w", err)
	}
	return relationshipTypeFromMap(m), nil
}

func (s *Store) GetRelationshipType(ctx context.Context, id string) (graph.RelationshipType, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:RelationshipType {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.RelationshipType{}, fmt.Errorf("get relationship type: %w", err)
	}
	return relationshipTypeFromMap(m), nil
}

func (s *Store) UpdateRelationshipType(ctx context.Context, t graph.RelationshipType) (graph.RelationshipType, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `
		MATCH (n:RelationshipType {id: $id})
		SET n.name = $name, n.updated_at = $now
		RETURN n {.*} AS n
	`, map[string]interface{}{"id": t.ID, "name": t.Name, "now": now()}, "n")
	if err != nil {
		return graph.RelationshipType{}, fmt.Errorf("update relationship type: %w", err)
	}
	return relationshipTypeFromMap(m), nil
}

func (s *Store) DeleteRelationshipType(ctx context.Context, id string) error {
	if err := s.deleteNode(ctx, "RelationshipType", id); err != nil {
		return fmt.Errorf("delete relationship type: %w", err)
	}
	return nil
}

func (s *Store) ListRelationshipTypes(ctx context.Context, opts graph.ListOptions) ([]graph.RelationshipType, int64, error) {
	total, err := s.count(ctx, "MATCH (n:RelationshipType) RETURN count(n) AS total", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("count relationship types: %w", err)
	}

	params := map[string]interface{}{}
	query := "MATCH (n:RelationshipType) RETURN n {.*} AS n " + orderPage("n", graph.ResourceRelationshipType, opts, params)
	rows, err := s.collect(ctx, query, params, "n")
	if err != nil {
		return nil, 0, fmt.Errorf("list relationship types: %w", err)
	}

	types := make([]graph.RelationshipType, 0, len(rows))
	for _, m := range rows {
		types = append(types, relationshipTypeFromMap(m))
	}
	return types, total, nil
}

// ============================================================================
// Users
// ============================================================================

func userFromMap(m map[string]interface{}) graph.User {
	return graph.User{
		ID:          getStringFromMap(m, "id", ""),
		Email:       getStringFromMap(m, "email", ""),
		Name:        getStringFromMap(m, "name", ""),
		Role:        graph.Role(getStringFromMap(m, "role", string(graph.RoleUser))),
		IsActive:    getBoolFromMap(m, "is_active", true),
		LastLoginAt: getTimePtrFromMap(m, "last_login_at"),
		CreatedAt:   getTimeFromMap(m, "created_at"),
		UpdatedAt:   getTimeFromMap(m, "updated_at"),
	}
}

// UpsertUser merges on the lower-cased email
func (s *Store) UpsertUser(ctx context.Context, u graph.User) (graph.User, error) {
	id := u.ID
	if id == "" {
		id = graph.NewID()
	}
	m, err := s.one(ctx, neo4j.AccessModeWrite, `
		MERGE (n:User {email: $email})
		ON CREATE SET n.id = $id, n.created_at = $now
		SET n.name = $name, n.role = $role, n.is_active = $active,
		    n.last_login_at = $lastLogin, n.updated_at = $now
		RETURN n {.*} AS n
	`, map[string]interface{}{
		"email":     strings.ToLower(strings.TrimSpace(u.Email)),
		"id":        id,
		"name":      u.Name,
		"role":      string(u.Role),
		"active":    u.IsActive,
		"lastLogin": timeParam(u.LastLoginAt),
		"now":       now(),
	}, "n")
	if err != nil {
		return graph.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return userFromMap(m), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (graph.User, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:User {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.User{}, fmt.Errorf("get user: %w", err)
	}
	return userFromMap(m), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (graph.User, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:User {email: $email}) RETURN n {.*} AS n`,
		map[string]interface{}{"email": strings.ToLower(strings.TrimSpace(email))}, "n")
	if err != nil {
		return graph.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return userFromMap(m), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]graph.User, error) {
	rows, err := s.collect(ctx, `MATCH (n:User) RETURN n {.*} AS n ORDER BY n.email`, nil, "n")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]graph.User, 0, len(rows))
	for _, m := range rows {
		users = append(users, userFromMap(m))
	}
	return users, nil
}
