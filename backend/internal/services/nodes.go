package services

import (
	"context"
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"go.uber.org/zap"
)

// ============================================================================
// Persons
// ============================================================================

// PersonInput is the body of a person create
type PersonInput struct {
	FirstName   string
	LastName    string
	Description string
	DateOfBirth *time.Time
	Websites    []string
	Images      []string
	Place       string
}

// PersonPatch is a partial person update. An empty Place clears the location.
type PersonPatch struct {
	FirstName        *string
	LastName         *string
	Description      *string
	DateOfBirth      *time.Time
	ClearDateOfBirth bool
	Websites         *[]string
	Images           *[]string
	Place            *string
}

// PersonService manages persons
type PersonService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *PersonService) Create(ctx context.Context, in PersonInput) (graph.Person, error) {
	if err := checkBirthDate(in.DateOfBirth); err != nil {
		return graph.Person{}, err
	}
	if err := checkPlaceRef(ctx, s.store, in.Place, s.logger); err != nil {
		return graph.Person{}, err
	}

	p := graph.Person{
		ID:          graph.NewID(),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Description: in.Description,
		DateOfBirth: in.DateOfBirth,
		Websites:    orEmpty(in.Websites),
		Images:      orEmpty(in.Images),
		Place:       in.Place,
	}
	created, err := s.store.CreatePerson(ctx, p)
	if err != nil {
		return graph.Person{}, classify(err, resPerson, s.logger)
	}
	s.logger.Debug("Person created", zap.String("id", created.ID))
	return created, nil
}

func (s *PersonService) Get(ctx context.Context, id string) (graph.Person, error) {
	if err := checkID(id, "person"); err != nil {
		return graph.Person{}, err
	}
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return graph.Person{}, classify(err, resPerson, s.logger)
	}
	return p, nil
}

func (s *PersonService) List(ctx context.Context, f graph.PersonFilter, opts graph.ListOptions) (graph.Page[graph.Person], error) {
	opts, err := normalize(opts, graph.ResourcePerson)
	if err != nil {
		return graph.Page[graph.Person]{}, err
	}
	if f.Place != "" {
		if err := checkID(f.Place, "place"); err != nil {
			return graph.Page[graph.Person]{}, err
		}
	}
	persons, total, err := s.store.ListPersons(ctx, f, opts)
	if err != nil {
		return graph.Page[graph.Person]{}, classify(err, resPerson, s.logger)
	}
	return graph.NewPage(persons, opts, total), nil
}

func (s *PersonService) Update(ctx context.Context, id string, patch PersonPatch) (graph.Person, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return graph.Person{}, err
	}

	if patch.Place != nil {
		if err := checkPlaceRef(ctx, s.store, *patch.Place, s.logger); err != nil {
			return graph.Person{}, err
		}
		current.Place = *patch.Place
	}
	if patch.FirstName != nil {
		current.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		current.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	switch {
	case patch.ClearDateOfBirth:
		current.DateOfBirth = nil
	case patch.DateOfBirth != nil:
		if err := checkBirthDate(patch.DateOfBirth); err != nil {
			return graph.Person{}, err
		}
		current.DateOfBirth = patch.DateOfBirth
	}
	if patch.Websites != nil {
		current.Websites = orEmpty(*patch.Websites)
	}
	if patch.Images != nil {
		current.Images = orEmpty(*patch.Images)
	}

	updated, err := s.store.UpdatePerson(ctx, current)
	if err != nil {
		return graph.Person{}, classify(err, resPerson, s.logger)
	}
	return updated, nil
}

// Delete removes the person and every relationship touching it
func (s *PersonService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, "person"); err != nil {
		return err
	}
	if err := s.store.DeletePerson(ctx, id); err != nil {
		return classify(err, resPerson, s.logger)
	}
	s.logger.Debug("Person deleted", zap.String("id", id))
	return nil
}

func checkBirthDate(dob *time.Time) error {
	if dob != nil && dob.After(time.Now()) {
		return apperrors.NewInvalidArgument("Date of birth cannot be in the future")
	}
	return nil
}

func checkPlaceRef(ctx context.Context, store graph.PlaceStore, id string, log *zap.Logger) error {
	return requireRef(ctx, id, "place", resPlace, func(ctx context.Context, id string) error {
		_, err := store.GetPlace(ctx, id)
		return err
	}, log)
}

// ============================================================================
// Entities
// ============================================================================

// EntityInput is the body of an entity create
type EntityInput struct {
	Type        string
	Name        string
	Description string
	Websites    []string
	Images      []string
	Place       string
}

// EntityPatch is a partial entity update. Type cannot be cleared.
type EntityPatch struct {
	Type        *string
	Name        *string
	Description *string
	Websites    *[]string
	Images      *[]string
	Place       *string
}

// EntityService manages entities
type EntityService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *EntityService) Create(ctx context.Context, in EntityInput) (graph.Entity, error) {
	if err := s.checkType(ctx, in.Type); err != nil {
		return graph.Entity{}, err
	}
	if err := checkPlaceRef(ctx, s.store, in.Place, s.logger); err != nil {
		return graph.Entity{}, err
	}

	e := graph.Entity{
		ID:          graph.NewID(),
		Type:        in.Type,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Websites:    orEmpty(in.Websites),
		Images:      orEmpty(in.Images),
		Place:       in.Place,
	}
	created, err := s.store.CreateEntity(ctx, e)
	if err != nil {
		return graph.Entity{}, classify(err, resEntity, s.logger)
	}
	s.logger.Debug("Entity created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *EntityService) Get(ctx context.Context, id string) (graph.Entity, error) {
	if err := checkID(id, "entity"); err != nil {
		return graph.Entity{}, err
	}
	e, err := s.store.GetEntity(ctx, id)
	if err != nil {
		return graph.Entity{}, classify(err, resEntity, s.logger)
	}
	return e, nil
}

func (s *EntityService) List(ctx context.Context, f graph.EntityFilter, opts graph.ListOptions) (graph.Page[graph.Entity], error) {
	opts, err := normalize(opts, graph.ResourceEntity)
	if err != nil {
		return graph.Page[graph.Entity]{}, err
	}
	if f.Type != "" {
		if err := checkID(f.Type, "entity type"); err != nil {
			return graph.Page[graph.Entity]{}, err
		}
	}
	if f.Place != "" {
		if err := checkID(f.Place, "place"); err != nil {
			return graph.Page[graph.Entity]{}, err
		}
	}
	entities, total, err := s.store.ListEntities(ctx, f, opts)
	if err != nil {
		return graph.Page[graph.Entity]{}, classify(err, resEntity, s.logger)
	}
	return graph.NewPage(entities, opts, total), nil
}

// ListByType lists the entities of an existing entity type
func (s *EntityService) ListByType(ctx context.Context, typeID string, opts graph.ListOptions) (graph.Page[graph.Entity], error) {
	if err := checkID(typeID, "entity type"); err != nil {
		return graph.Page[graph.Entity]{}, err
	}
	if _, err := s.store.GetEntityType(ctx, typeID); err != nil {
		return graph.Page[graph.Entity]{}, classify(err, resEntityType, s.logger)
	}
	return s.List(ctx, graph.EntityFilter{Type: typeID}, opts)
}

func (s *EntityService) Update(ctx context.Context, id string, patch EntityPatch) (graph.Entity, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return graph.Entity{}, err
	}

	if patch.Type != nil {
		if err := s.checkType(ctx, *patch.Type); err != nil {
			return graph.Entity{}, err
		}
		current.Type = *patch.Type
	}
	if patch.Place != nil {
		if err := checkPlaceRef(ctx, s.store, *patch.Place, s.logger); err != nil {
			return graph.Entity{}, err
		}
		current.Place = *patch.Place
	}
	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Websites != nil {
		current.Websites = orEmpty(*patch.Websites)
	}
	if patch.Images != nil {
		current.Images = orEmpty(*patch.Images)
	}

	updated, err := s.store.UpdateEntity(ctx, current)
	if err != nil {
		return graph.Entity{}, classify(err, resEntity, s.logger)
	}
	return updated, nil
}

// Delete removes the entity and every relationship touching it
func (s *EntityService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, "entity"); err != nil {
		return err
	}
	if err := s.store.DeleteEntity(ctx, id); err != nil {
		return classify(err, resEntity, s.logger)
	}
	s.logger.Debug("Entity deleted", zap.String("id", id))
	return nil
}

func (s *EntityService) checkType(ctx context.Context, typeID string) error {
	if typeID == "" {
		return apperrors.NewInvalidArgument("Entity type is required")
	}
	return requireRef(ctx, typeID, "entity type", resEntityType, func(ctx context.Context, id string) error {
		_, err := s.store.GetEntityType(ctx, id)
		return err
	}, s.logger)
}
