package neo4jstore

import (
	"context"
	"fmt"

	"link-graph/backend/internal/graph"
)

// ============================================================================
// Search Operations
// ============================================================================

const searchOrder = " ORDER BY n.created_at ASC, n.id ASC"

func (s *Store) search(ctx context.Context, label, query string, props ...string) ([]map[string]interface{}, error) {
	w := newWhere()
	w.contains(query, props...)
	cypher := fmt.Sprintf("MATCH (n:%s) %s RETURN n {.*} AS n", label, w.String()) + searchOrder
	return s.collect(ctx, cypher, w.params, "n")
}

func (s *Store) SearchPersons(ctx context.Context, query string) ([]graph.Person, error) {
	rows, err := s.search(ctx, "Person", query, "first_name", "last_name", "description")
	if err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	result := make([]graph.Person, 0, len(rows))
	for _, m := range rows {
		result = append(result, personFromMap(m))
	}
	return result, nil
}

func (s *Store) SearchEntities(ctx context.Context, query string) ([]graph.Entity, error) {
	rows, err := s.search(ctx, "Entity", query, "name", "description")
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}
	result := make([]graph.Entity, 0, len(rows))
	for _, m := range rows {
		result = append(result, entityFromMap(m))
	}
	return result, nil
}

func (s *Store) SearchPlaces(ctx context.Context, query string) ([]graph.Place, error) {
	rows, err := s.search(ctx, "Place", query, "name", "description")
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	result := make([]graph.Place, 0, len(rows))
	for _, m := range rows {
		result = append(result, placeFromMap(m))
	}
	return result, nil
}
