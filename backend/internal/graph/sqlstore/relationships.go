package sqlstore

import (
	"context"

	"link-graph/backend/internal/graph"
)

// CreateRelationship relies on idx_rel_triple to reject duplicates atomically
func (s *Store) CreateRelationship(ctx context.Context, r graph.Relationship) (graph.Relationship, error) {
	m := relationshipModel(r)
	m.CreatedAt, m.UpdatedAt = now(), now()
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.Relationship{}, translate(err, "create relationship")
	}
	return m.toDomain(), nil
}

func (s *Store) GetRelationship(ctx context.Context, id string) (graph.Relationship, error) {
	var m RelationshipModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.Relationship{}, translate(err, "get relationship")
	}
	return m.toDomain(), nil
}

func (s *Store) FindRelationship(ctx context.Context, fromID, toID, relationshipID string) (graph.Relationship, error) {
	var m RelationshipModel
	err := s.db.WithContext(ctx).
		Where("from_id = ? AND to_id = ? AND relationship_id = ?", fromID, toID, relationshipID).
		First(&m).Error
	if err != nil {
		return graph.Relationship{}, translate(err, "find relationship")
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateRelationship(ctx context.Context, r graph.Relationship) (graph.Relationship, error) {
	m := relationshipModel(r)
	m.UpdatedAt = now()
	if err := updateRow(ctx, s.db, &RelationshipModel{}, r.ID, &m, "update relationship"); err != nil {
		return graph.Relationship{}, err
	}
	return s.GetRelationship(ctx, r.ID)
}

func (s *Store) DeleteRelationship(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, &RelationshipModel{}, id, "delete relationship")
}

func (s *Store) ListRelationships(ctx context.Context, f graph.RelationshipFilter, opts graph.ListOptions) ([]graph.Relationship, int64, error) {
	q := s.db.WithContext(ctx).Model(&RelationshipModel{})
	if f.From != "" {
		q = q.Where("from_id = ?", f.From)
	}
	if f.To != "" {
		q = q.Where("to_id = ?", f.To)
	}
	if f.FromModel != "" {
		q = q.Where("from_model = ?", string(f.FromModel))
	}
	if f.ToModel != "" {
		q = q.Where("to_model = ?", string(f.ToModel))
	}
	if f.Relationship != "" {
		q = q.Where("relationship_id = ?", f.Relationship)
	}

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count relationships")
	}

	rows := make([]RelationshipModel, 0)
	if err := page(q, graph.ResourceRelationship, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list relationships")
	}
	return relationshipsFromModels(rows), total, nil
}

func (s *Store) ListRelationshipsByNode(ctx context.Context, node graph.NodeRef) ([]graph.Relationship, error) {
	rows := make([]RelationshipModel, 0)
	err := s.db.WithContext(ctx).
		Where("(from_id = ? AND from_model = ?) OR (to_id = ? AND to_model = ?)",
			node.ID, string(node.Kind), node.ID, string(node.Kind)).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "list relationships by node")
	}
	return relationshipsFromModels(rows), nil
}

func relationshipsFromModels(rows []RelationshipModel) []graph.Relationship {
	result := make([]graph.Relationship, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result
}
