package sqlstore

import (
	"context"

	"link-graph/backend/internal/graph"
)

// Search results come back in insertion order so equal relevance scores
// keep a deterministic order after the stable sort.

func (s *Store) SearchPersons(ctx context.Context, query string) ([]graph.Person, error) {
	rows := make([]PersonModel, 0)
	q := containsAny(s.db.WithContext(ctx).Model(&PersonModel{}), query, "first_name", "last_name", "description")
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "search persons")
	}
	result := make([]graph.Person, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (s *Store) SearchEntities(ctx context.Context, query string) ([]graph.Entity, error) {
	rows := make([]EntityModel, 0)
	q := containsAny(s.db.WithContext(ctx).Model(&EntityModel{}), query, "name", "description")
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "search entities")
	}
	result := make([]graph.Entity, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (s *Store) SearchPlaces(ctx context.Context, query string) ([]graph.Place, error) {
	rows := make([]PlaceModel, 0)
	q := containsAny(s.db.WithContext(ctx).Model(&PlaceModel{}), query, "name", "description")
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "search places")
	}
	result := make([]graph.Place, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}
