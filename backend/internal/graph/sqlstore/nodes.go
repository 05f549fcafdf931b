package sqlstore

import (
	"context"
	"fmt"

	"link-graph/backend/internal/graph"

	"gorm.io/gorm"
)

// ============================================================================
// Persons
// ============================================================================

func (s *Store) CreatePerson(ctx context.Context, p graph.Person) (graph.Person, error) {
	m := personModel(p)
	m.CreatedAt, m.UpdatedAt = now(), now()
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.Person{}, translate(err, "create person")
	}
	return m.toDomain(), nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (graph.Person, error) {
	var m PersonModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.Person{}, translate(err, "get person")
	}
	return m.toDomain(), nil
}

func (s *Store) UpdatePerson(ctx context.Context, p graph.Person) (graph.Person, error) {
	m := personModel(p)
	m.UpdatedAt = now()
	if err := updateRow(ctx, s.db, &PersonModel{}, p.ID, &m, "update person"); err != nil {
		return graph.Person{}, err
	}
	return s.GetPerson(ctx, p.ID)
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.deleteNode(ctx, &PersonModel{}, graph.NodeRef{Kind: graph.KindPerson, ID: id})
}

func (s *Store) ListPersons(ctx context.Context, f graph.PersonFilter, opts graph.ListOptions) ([]graph.Person, int64, error) {
	q := s.db.WithContext(ctx).Model(&PersonModel{})
	q = containsAny(q, f.Search, "first_name", "last_name", "description")
	if f.Place != "" {
		q = q.Where("place_id = ?", f.Place)
	}

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count persons")
	}

	rows := make([]PersonModel, 0)
	if err := page(q, graph.ResourcePerson, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list persons")
	}

	result := make([]graph.Person, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, total, nil
}

// ============================================================================
// Entities
// ============================================================================

func (s *Store) CreateEntity(ctx context.Context, e graph.Entity) (graph.Entity, error) {
	m := entityModel(e)
	m.CreatedAt, m.UpdatedAt = now(), now()
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return graph.Entity{}, translate(err, "create entity")
	}
	return m.toDomain(), nil
}

func (s *Store) GetEntity(ctx context.Context, id string) (graph.Entity, error) {
	var m EntityModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.Entity{}, translate(err, "get entity")
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateEntity(ctx context.Context, e graph.Entity) (graph.Entity, error) {
	m := entityModel(e)
	m.UpdatedAt = now()
	if err := updateRow(ctx, s.db, &EntityModel{}, e.ID, &m, "update entity"); err != nil {
		return graph.Entity{}, err
	}
	return s.GetEntity(ctx, e.ID)
}

func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	return s.deleteNode(ctx, &EntityModel{}, graph.NodeRef{Kind: graph.KindEntity, ID: id})
}

func (s *Store) ListEntities(ctx context.Context, f graph.EntityFilter, opts graph.ListOptions) ([]graph.Entity, int64, error) {
	q := s.db.WithContext(ctx).Model(&EntityModel{})
	q = containsAny(q, f.Search, "name", "description")
	if f.Type != "" {
		q = q.Where("type_id = ?", f.Type)
	}
	if f.Place != "" {
		q = q.Where("place_id = ?", f.Place)
	}

	total, err := count(q)
	if err != nil {
		return nil, 0, translate(err, "count entities")
	}

	rows := make([]EntityModel, 0)
	if err := page(q, graph.ResourceEntity, opts).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list entities")
	}

	result := make([]graph.Entity, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, total, nil
}

// deleteNode removes a person or entity together with its incident edges
func (s *Store) deleteNode(ctx context.Context, model interface{}, node graph.NodeRef) error {
	op := fmt.Sprintf("delete %s", node.Kind)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRow(ctx, tx, model, node.ID, op); err != nil {
			return err
		}
		err := tx.Where("(from_id = ? AND from_model = ?) OR (to_id = ? AND to_model = ?)",
			node.ID, string(node.Kind), node.ID, string(node.Kind)).
			Delete(&RelationshipModel{}).Error
		return translate(err, op+" relationships")
	})
}
