package sqlstore

import (
	"context"

	"link-graph/backend/internal/graph"
)

func (s *Store) CreateEntityType(ctx context.Context, t graph.EntityType) (graph.EntityType, error) {
	m := EntityTypeModel{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: now(), UpdatedAt: now()}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.EntityType{}, translate(err, "create entity type")
	}
	return entityTypeFromModel(m), nil
}

func (s *Store) GetEntityType(ctx context.Context, id string) (graph.EntityType, error) {
	var m EntityTypeModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.EntityType{}, translate(err, "get entity type")
	}
	return entityTypeFromModel(m), nil
}

func (s *Store) UpdateEntityType(ctx context.Context, t graph.EntityType) (graph.EntityType, error) {
	m := EntityTypeModel{ID: t.ID, Name: t.Name, Description: t.Description, UpdatedAt: now()}
	if err := updateRow(ctx, s.db, &EntityTypeModel{}, t.ID, &m, "update entity type"); err != nil {
		return graph.EntityType{}, err
	}
	return s.GetEntityType(ctx, t.ID)
}

func (s *Store) DeleteEntityType(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, &EntityTypeModel{}, id, "delete entity type")
}

func (s *Store) ListEntityTypes(ctx context.Context, opts graph.ListOptions) ([]graph.EntityType, int64, error) {
	q := s.db.WithContext(ctx).Model(&EntityTypeModel{})

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count entity types")
	}

	rows := make([]EntityTypeModel, 0)
	if err := page(q, graph.ResourceEntityType, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list entity types")
	}

	result := make([]graph.EntityType, 0, len(rows))
	for _, m := range rows {
		result = append(result, entityTypeFromModel(m))
	}
	return result, total, nil
}

func (s *Store) CreateRelationshipType(ctx context.Context, t graph.RelationshipType) (graph.RelationshipType, error) {
	m := RelationshipTypeModel{ID: t.ID, Name: t.Name, CreatedAt: now(), UpdatedAt: now()}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.RelationshipType{}, translate(err, "create relationship type")
	}
	return relationshipTypeFromModel(m), nil
}

func (s *Store) GetRelationshipType(ctx context.Context, id string) (graph.RelationshipType, error) {
	var m RelationshipTypeModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.RelationshipType{}, translate(err, "get relationship type")
	}
	return relationshipTypeFromModel(m), nil
}

func (s *Store) UpdateRelationshipType(ctx context.Context, t graph.RelationshipType) (graph.RelationshipType, error) {
	m := RelationshipTypeModel{ID: t.ID, Name: t.Name, UpdatedAt: now()}
	if err := updateRow(ctx, s.db, &RelationshipTypeModel{}, t.ID, &m, "update relationship type"); err != nil {
		return graph.RelationshipType{}, err
	}
	return s.GetRelationshipType(ctx, t.ID)
}

func (s *Store) DeleteRelationshipType(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, &RelationshipTypeModel{}, id, "delete relationship type")
}

func (s *Store) ListRelationshipTypes(ctx context.Context, opts graph.ListOptions) ([]graph.RelationshipType, int64, error) {
	q := s.db.WithContext(ctx).Model(&RelationshipTypeModel{})

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count relationship types")
	}

	rows := make([]RelationshipTypeModel, 0)
	if err := page(q, graph.ResourceRelationshipType, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list relationship types")
	}

	result := make([]graph.RelationshipType, 0, len(rows))
	for _, m := range rows {
		result = append(result, relationshipTypeFromModel(m))
	}
	return result, total, nil
}

func entityTypeFromModel(m EntityTypeModel) graph.EntityType {
	return graph.EntityType{ID: m.ID, Name: m.Name, Description: m.Description, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func relationshipTypeFromModel(m RelationshipTypeModel) graph.RelationshipType {
	return graph.RelationshipType{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}
