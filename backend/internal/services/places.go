package services

import (
	"context"
	"strings"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"go.uber.org/zap"
)

// PlaceInput is the body of a place create
type PlaceInput struct {
	Name        string
	Description string
	Images      []string
	Region      string
}

// PlacePatch is a partial place update. Nil fields are left unchanged;
// an empty Region moves the place to the top level.
type PlacePatch struct {
	Name        *string
	Description *string
	Images      *[]string
	Region      *string
}

// PlaceService maintains the place hierarchy
type PlaceService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *PlaceService) Create(ctx context.Context, in PlaceInput) (graph.Place, error) {
	if err := s.checkRegion(ctx, in.Region); err != nil {
		return graph.Place{}, err
	}

	p := graph.Place{
		ID:          graph.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Images:      orEmpty(in.Images),
		Region:      in.Region,
	}
	created, err := s.store.CreatePlace(ctx, p)
	if err != nil {
		return graph.Place{}, classify(err, resPlace, s.logger)
	}
	s.logger.Debug("Place created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *PlaceService) Get(ctx context.Context, id string) (graph.Place, error) {
	if err := checkID(id, "place"); err != nil {
		return graph.Place{}, err
	}
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return graph.Place{}, classify(err, resPlace, s.logger)
	}
	return p, nil
}

func (s *PlaceService) List(ctx context.Context, f graph.PlaceFilter, opts graph.ListOptions) (graph.Page[graph.Place], error) {
	opts, err := normalize(opts, graph.ResourcePlace)
	if err != nil {
		return graph.Page[graph.Place]{}, err
	}
	if f.Region != "" {
		if err := checkID(f.Region, "region"); err != nil {
			return graph.Page[graph.Place]{}, err
		}
	}
	places, total, err := s.store.ListPlaces(ctx, f, opts)
	if err != nil {
		return graph.Page[graph.Place]{}, classify(err, resPlace, s.logger)
	}
	return graph.NewPage(places, opts, total), nil
}

// ListByRegion lists the direct children of regionID without checking it exists
func (s *PlaceService) ListByRegion(ctx context.Context, regionID string, opts graph.ListOptions) (graph.Page[graph.Place], error) {
	if err := checkID(regionID, "region"); err != nil {
		return graph.Page[graph.Place]{}, err
	}
	return s.List(ctx, graph.PlaceFilter{Region: regionID}, opts)
}

// ListSubPlaces lists the direct children of an existing place
func (s *PlaceService) ListSubPlaces(ctx context.Context, id string, opts graph.ListOptions) (graph.Page[graph.Place], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return graph.Page[graph.Place]{}, err
	}
	return s.List(ctx, graph.PlaceFilter{Region: id}, opts)
}

// ListPersons lists the persons located at an existing place
func (s *PlaceService) ListPersons(ctx context.Context, id string, opts graph.ListOptions) (graph.Page[graph.Person], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return graph.Page[graph.Person]{}, err
	}
	opts, err := normalize(opts, graph.ResourcePerson)
	if err != nil {
		return graph.Page[graph.Person]{}, err
	}
	persons, total, err := s.store.ListPersons(ctx, graph.PersonFilter{Place: id}, opts)
	if err != nil {
		return graph.Page[graph.Person]{}, classify(err, resPerson, s.logger)
	}
	return graph.NewPage(persons, opts, total), nil
}

// ListEntities lists the entities located at an existing place
func (s *PlaceService) ListEntities(ctx context.Context, id string, opts graph.ListOptions) (graph.Page[graph.Entity], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return graph.Page[graph.Entity]{}, err
	}
	opts, err := normalize(opts, graph.ResourceEntity)
	if err != nil {
		return graph.Page[graph.Entity]{}, err
	}
	entities, total, err := s.store.ListEntities(ctx, graph.EntityFilter{Place: id}, opts)
	if err != nil {
		return graph.Page[graph.Entity]{}, classify(err, resEntity, s.logger)
	}
	return graph.NewPage(entities, opts, total), nil
}

// Update applies patch. Moving a place under itself or under one of its
// descendants is rejected.
func (s *PlaceService) Update(ctx context.Context, id string, patch PlacePatch) (graph.Place, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return graph.Place{}, err
	}

	if patch.Region != nil && *patch.Region != current.Region {
		region := *patch.Region
		if region == id {
			return graph.Place{}, apperrors.NewInvalidArgument("a place cannot be its own region")
		}
		if err := s.checkRegion(ctx, region); err != nil {
			return graph.Place{}, err
		}
		if err := s.checkAncestry(ctx, id, region); err != nil {
			return graph.Place{}, err
		}
		current.Region = region
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Images != nil {
		current.Images = orEmpty(*patch.Images)
	}

	updated, err := s.store.UpdatePlace(ctx, current)
	if err != nil {
		return graph.Place{}, classify(err, resPlace, s.logger)
	}
	s.logger.Debug("Place updated", zap.String("id", id))
	return updated, nil
}

// Delete removes a place that has no sub-places
func (s *PlaceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountSubPlaces(ctx, id)
	if err != nil {
		return classify(err, resPlace, s.logger)
	}
	if n > 0 {
		return apperrors.NewConflict("place has sub-places", nil)
	}
	if err := s.store.DeletePlace(ctx, id); err != nil {
		return classify(err, resPlace, s.logger)
	}
	s.logger.Debug("Place deleted", zap.String("id", id))
	return nil
}

func (s *PlaceService) checkRegion(ctx context.Context, region string) error {
	return requireRef(ctx, region, "region", "Region place", func(ctx context.Context, id string) error {
		_, err := s.store.GetPlace(ctx, id)
		return err
	}, s.logger)
}

// checkAncestry walks up from region and fails if it reaches id
func (s *PlaceService) checkAncestry(ctx context.Context, id, region string) error {
	seen := map[string]bool{}
	for cur := region; cur != ""; {
		if cur == id {
			return apperrors.NewInvalidArgument("region would create a cycle")
		}
		if seen[cur] {
			// Existing data already loops; stop walking
			return nil
		}
		seen[cur] = true
		p, err := s.store.GetPlace(ctx, cur)
		if err != nil {
			return classify(err, "Region place", s.logger)
		}
		cur = p.Region
	}
	return nil
}
