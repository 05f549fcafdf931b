package services

import (
	"context"
	"strings"

	"link-graph/backend/internal/graph"

	"go.uber.org/zap"
)

// EntityTypeInput is the body of an entity type create
type EntityTypeInput struct {
	Name        string
	Description string
}

// EntityTypePatch is a partial entity type update
type EntityTypePatch struct {
	Name        *string
	Description *string
}

// EntityTypeService manages the entity type catalog. Deleting a type does
// not touch the entities that reference it.
type EntityTypeService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *EntityTypeService) Create(ctx context.Context, in EntityTypeInput) (graph.EntityType, error) {
	t := graph.EntityType{ID: graph.NewID(), Name: strings.TrimSpace(in.Name), Description: in.Description}
	created, err := s.store.CreateEntityType(ctx, t)
	if err != nil {
		return graph.EntityType{}, classify(err, resEntityType, s.logger)
	}
	s.logger.Debug("Entity type created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *EntityTypeService) Get(ctx context.Context, id string) (graph.EntityType, error) {
	if err := checkID(id, "entity type"); err != nil {
		return graph.EntityType{}, err
	}
	t, err := s.store.GetEntityType(ctx, id)
	if err != nil {
		return graph.EntityType{}, classify(err, resEntityType, s.logger)
	}
	return t, nil
}

func (s *EntityTypeService) List(ctx context.Context, opts graph.ListOptions) (graph.Page[graph.EntityType], error) {
	opts, err := normalize(opts, graph.ResourceEntityType)
	if err != nil {
		return graph.Page[graph.EntityType]{}, err
	}
	types, total, err := s.store.ListEntityTypes(ctx, opts)
	if err != nil {
		return graph.Page[graph.EntityType]{}, classify(err, resEntityType, s.logger)
	}
	return graph.NewPage(types, opts, total), nil
}

// All returns every entity type sorted by name
func (s *EntityTypeService) All(ctx context.Context) ([]graph.EntityType, error) {
	types, err := listAll(ctx, "name", s.store.ListEntityTypes)
	if err != nil {
		return nil, classify(err, resEntityType, s.logger)
	}
	return types, nil
}

func (s *EntityTypeService) Update(ctx context.Context, id string, patch EntityTypePatch) (graph.EntityType, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return graph.EntityType{}, err
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	updated, err := s.store.UpdateEntityType(ctx, current)
	if err != nil {
		return graph.EntityType{}, classify(err, resEntityType, s.logger)
	}
	return updated, nil
}

func (s *EntityTypeService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, "entity type"); err != nil {
		return err
	}
	if err := s.store.DeleteEntityType(ctx, id); err != nil {
		return classify(err, resEntityType, s.logger)
	}
	return nil
}

// RelationshipTypeInput is the body of a relationship type create
type RelationshipTypeInput struct {
	Name string
}

// RelationshipTypePatch is a partial relationship type update
type RelationshipTypePatch struct {
	Name *string
}

// RelationshipTypeService manages the relationship type catalog
type RelationshipTypeService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *RelationshipTypeService) Create(ctx context.Context, in RelationshipTypeInput) (graph.RelationshipType, error) {
	t := graph.RelationshipType{ID: graph.NewID(), Name: strings.TrimSpace(in.Name)}
	created, err := s.store.CreateRelationshipType(ctx, t)
	if err != nil {
		return graph.RelationshipType{}, classify(err, resRelationshipType, s.logger)
	}
	s.logger.Debug("Relationship type created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *RelationshipTypeService) Get(ctx context.Context, id string) (graph.RelationshipType, error) {
	if err := checkID(id, "relationship type"); err != nil {
		return graph.RelationshipType{}, err
	}
	t, err := s.store.GetRelationshipType(ctx, id)
	if err != nil {
		return graph.RelationshipType{}, classify(err, resRelationshipType, s.logger)
	}
	return t, nil
}

func (s *RelationshipTypeService) List(ctx context.Context, opts graph.ListOptions) (graph.Page[graph.RelationshipType], error) {
	opts, err := normalize(opts, graph.ResourceRelationshipType)
	if err != nil {
		return graph.Page[graph.RelationshipType]{}, err
	}
	types, total, err := s.store.ListRelationshipTypes(ctx, opts)
	if err != nil {
		return graph.Page[graph.RelationshipType]{}, classify(err, resRelationshipType, s.logger)
	}
	return graph.NewPage(types, opts, total), nil
}

// All returns every relationship type sorted by name
func (s *RelationshipTypeService) All(ctx context.Context) ([]graph.RelationshipType, error) {
	types, err := listAll(ctx, "name", s.store.ListRelationshipTypes)
	if err != nil {
		return nil, classify(err, resRelationshipType, s.logger)
	}
	return types, nil
}

func (s *RelationshipTypeService) Update(ctx context.Context, id string, patch RelationshipTypePatch) (graph.RelationshipType, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return graph.RelationshipType{}, err
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	updated, err := s.store.UpdateRelationshipType(ctx, current)
	if err != nil {
		return graph.RelationshipType{}, classify(err, resRelationshipType, s.logger)
	}
	return updated, nil
}

func (s *RelationshipTypeService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, "relationship type"); err != nil {
		return err
	}
	if err := s.store.DeleteRelationshipType(ctx, id); err != nil {
		return classify(err, resRelationshipType, s.logger)
	}
	return nil
}
