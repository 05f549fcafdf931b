package sqlstore

import (
	"context"

	"link-graph/backend/internal/graph"
)

func (s *Store) CreatePlace(ctx context.Context, p graph.Place) (graph.Place, error) {
	m := placeModel(p)
	m.CreatedAt, m.UpdatedAt = now(), now()
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.Place{}, translate(err, "create place")
	}
	return m.toDomain(), nil
}

func (s *Store) GetPlace(ctx context.Context, id string) (graph.Place, error) {
	var m PlaceModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.Place{}, translate(err, "get place")
	}
	return m.toDomain(), nil
}

func (s *Store) UpdatePlace(ctx context.Context, p graph.Place) (graph.Place, error) {
	m := placeModel(p)
	m.UpdatedAt = now()
	if err := updateRow(ctx, s.db, &PlaceModel{}, p.ID, &m, "update place"); err != nil {
		return graph.Place{}, err
	}
	return s.GetPlace(ctx, p.ID)
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, &PlaceModel{}, id, "delete place")
}

func (s *Store) ListPlaces(ctx context.Context, f graph.PlaceFilter, opts graph.ListOptions) ([]graph.Place, int64, error) {
	q := s.db.WithContext(ctx).Model(&PlaceModel{})
	q = containsAny(q, f.Search, "name", "description")
	if f.Region != "" {
		q = q.Where("region_id = ?", f.Region)
	}

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count places")
	}

	rows := make([]PlaceModel, 0)
	if err := page(q, graph.ResourcePlace, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list places")
	}

	result := make([]graph.Place, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, total, nil
}

func (s *Store) CountSubPlaces(ctx context.Context, id string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&PlaceModel{}).Where("region_id = ?", id).Count(&n).Error; err != nil {
		return 0, translate(err, "count sub-places")
	}
	return n, nil
}
