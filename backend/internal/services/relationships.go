package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"go.uber.org/zap"
)

// RelationshipInput is the body of a relationship create
type RelationshipInput struct {
	From                string
	To                  string
	FromModel           string
	ToModel             string
	Relationship        string
	ReverseRelationship string
}

// RelationshipPatch is a partial relationship update
type RelationshipPatch struct {
	From                *string
	To                  *string
	FromModel           *string
	ToModel             *string
	Relationship        *string
	ReverseRelationship *string
}

// ExpandedRelationship is an edge with its endpoints and both type labels
// resolved to full records. A dangling reference expands to null.
type ExpandedRelationship struct {
	ID                  string                  `json:"id"`
	From                interface{}             `json:"from"`
	To                  interface{}             `json:"to"`
	FromModel           graph.NodeKind          `json:"fromModel"`
	ToModel             graph.NodeKind          `json:"toModel"`
	Relationship        *graph.RelationshipType `json:"relationship"`
	ReverseRelationship *graph.RelationshipType `json:"reverseRelationship"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

// RelationshipService maintains the typed edges between persons and entities
type RelationshipService struct {
	store  graph.Store
	logger *zap.Logger
}

func (s *RelationshipService) Create(ctx context.Context, in RelationshipInput) (ExpandedRelationship, error) {
	edge, err := edgeFromInput(in)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	edge.ID = graph.NewID()
	if err := s.validate(ctx, edge); err != nil {
		return ExpandedRelationship{}, err
	}

	created, err := s.store.CreateRelationship(ctx, edge)
	if err != nil {
		return ExpandedRelationship{}, classify(err, resRelationship, s.logger)
	}
	s.logger.Debug("Relationship created",
		zap.String("id", created.ID),
		zap.String("from", created.From.String()),
		zap.String("to", created.To.String()))
	return s.Get(ctx, created.ID)
}

func (s *RelationshipService) Get(ctx context.Context, id string) (ExpandedRelationship, error) {
	if err := checkID(id, "relationship"); err != nil {
		return ExpandedRelationship{}, err
	}
	edge, err := s.store.GetRelationship(ctx, id)
	if err != nil {
		return ExpandedRelationship{}, classify(err, resRelationship, s.logger)
	}
	return newExpander(s.store).expand(ctx, edge)
}

// List filters by any subset of the edge columns
func (s *RelationshipService) List(ctx context.Context, f graph.RelationshipFilter, opts graph.ListOptions) (graph.Page[ExpandedRelationship], error) {
	opts, err := normalize(opts, graph.ResourceRelationship)
	if err != nil {
		return graph.Page[ExpandedRelationship]{}, err
	}
	if err := checkFilter(f); err != nil {
		return graph.Page[ExpandedRelationship]{}, err
	}

	edges, total, err := s.store.ListRelationships(ctx, f, opts)
	if err != nil {
		return graph.Page[ExpandedRelationship]{}, classify(err, resRelationship, s.logger)
	}
	expanded, err := newExpander(s.store).expandAll(ctx, edges)
	if err != nil {
		return graph.Page[ExpandedRelationship]{}, err
	}
	return graph.NewPage(expanded, opts, total), nil
}

// ListByNode returns the outgoing and incoming edges of a person or entity
func (s *RelationshipService) ListByNode(ctx context.Context, id string, kind graph.NodeKind) ([]ExpandedRelationship, error) {
	if !kind.Valid() {
		return nil, apperrors.NewInvalidArgument("model must be Person or Entity")
	}
	if err := checkID(id, strings.ToLower(string(kind))); err != nil {
		return nil, err
	}
	edges, err := s.store.ListRelationshipsByNode(ctx, graph.NodeRef{Kind: kind, ID: id})
	if err != nil {
		return nil, classify(err, resRelationship, s.logger)
	}
	return newExpander(s.store).expandAll(ctx, edges)
}

// Update merges patch into the edge and re-validates the result as a whole
func (s *RelationshipService) Update(ctx context.Context, id string, patch RelationshipPatch) (ExpandedRelationship, error) {
	if err := checkID(id, "relationship"); err != nil {
		return ExpandedRelationship{}, err
	}
	current, err := s.store.GetRelationship(ctx, id)
	if err != nil {
		return ExpandedRelationship{}, classify(err, resRelationship, s.logger)
	}

	in := RelationshipInput{
		From:                current.From.ID,
		To:                  current.To.ID,
		FromModel:           string(current.From.Kind),
		ToModel:             string(current.To.Kind),
		Relationship:        current.Relationship,
		ReverseRelationship: current.ReverseRelationship,
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&in.From, patch.From)
	apply(&in.To, patch.To)
	apply(&in.FromModel, patch.FromModel)
	apply(&in.ToModel, patch.ToModel)
	apply(&in.Relationship, patch.Relationship)
	apply(&in.ReverseRelationship, patch.ReverseRelationship)

	edge, err := edgeFromInput(in)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	edge.ID = id
	edge.CreatedAt = current.CreatedAt
	if err := s.validate(ctx, edge); err != nil {
		return ExpandedRelationship{}, err
	}

	if _, err := s.store.UpdateRelationship(ctx, edge); err != nil {
		return ExpandedRelationship{}, classify(err, resRelationship, s.logger)
	}
	return s.Get(ctx, id)
}

func (s *RelationshipService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, "relationship"); err != nil {
		return err
	}
	if err := s.store.DeleteRelationship(ctx, id); err != nil {
		return classify(err, resRelationship, s.logger)
	}
	s.logger.Debug("Relationship deleted", zap.String("id", id))
	return nil
}

func edgeFromInput(in RelationshipInput) (graph.Relationship, error) {
	for _, ref := range []struct{ id, label string }{
		{in.From, "from"}, {in.To, "to"},
		{in.Relationship, "relationship type"}, {in.ReverseRelationship, "reverse relationship type"},
	} {
		if err := checkID(ref.id, ref.label); err != nil {
			return graph.Relationship{}, err
		}
	}
	fromKind, err := graph.ParseNodeKind(in.FromModel)
	if err != nil {
		return graph.Relationship{}, apperrors.NewInvalidArgument("fromModel must be Person or Entity")
	}
	toKind, err := graph.ParseNodeKind(in.ToModel)
	if err != nil {
		return graph.Relationship{}, apperrors.NewInvalidArgument("toModel must be Person or Entity")
	}
	return graph.Relationship{
		From:                graph.NodeRef{Kind: fromKind, ID: in.From},
		To:                  graph.NodeRef{Kind: toKind, ID: in.To},
		Relationship:        in.Relationship,
		ReverseRelationship: in.ReverseRelationship,
	}, nil
}

// validate checks that both endpoints and both types exist and that no
// other edge already holds the (from, to, relationship) triple
func (s *RelationshipService) validate(ctx context.Context, edge graph.Relationship) error {
	for _, ref := range []graph.NodeRef{edge.From, edge.To} {
		if err := s.nodeExists(ctx, ref); err != nil {
			return err
		}
	}
	for _, id := range []string{edge.Relationship, edge.ReverseRelationship} {
		if _, err := s.store.GetRelationshipType(ctx, id); err != nil {
			return classify(err, resRelationshipType, s.logger)
		}
	}

	existing, err := s.store.FindRelationship(ctx, edge.From.ID, edge.To.ID, edge.Relationship)
	switch {
	case err == nil && existing.ID != edge.ID:
		return apperrors.NewAlreadyExists(resRelationship, nil)
	case err != nil && !errors.Is(err, graph.ErrNotFound):
		return classify(err, resRelationship, s.logger)
	}
	return nil
}

func (s *RelationshipService) nodeExists(ctx context.Context, ref graph.NodeRef) error {
	var err error
	switch ref.Kind {
	case graph.KindPerson:
		_, err = s.store.GetPerson(ctx, ref.ID)
	case graph.KindEntity:
		_, err = s.store.GetEntity(ctx, ref.ID)
	}
	if err != nil {
		return classify(err, string(ref.Kind), s.logger)
	}
	return nil
}

func checkFilter(f graph.RelationshipFilter) error {
	for _, ref := range []struct{ id, label string }{
		{f.From, "from"}, {f.To, "to"}, {f.Relationship, "relationship type"},
	} {
		if ref.id == "" {
			continue
		}
		if err := checkID(ref.id, ref.label); err != nil {
			return err
		}
	}
	if f.FromModel != "" && !f.FromModel.Valid() {
		return apperrors.NewInvalidArgument("fromModel must be Person or Entity")
	}
	if f.ToModel != "" && !f.ToModel.Valid() {
		return apperrors.NewInvalidArgument("toModel must be Person or Entity")
	}
	return nil
}

// ============================================================================
// Expansion
// ============================================================================

// expander resolves edge references, caching lookups for one call
type expander struct {
	store    graph.Store
	persons  map[string]*graph.Person
	entities map[string]*graph.Entity
	types    map[string]*graph.RelationshipType
}

func newExpander(store graph.Store) *expander {
	return &expander{
		store:    store,
		persons:  map[string]*graph.Person{},
		entities: map[string]*graph.Entity{},
		types:    map[string]*graph.RelationshipType{},
	}
}

func (x *expander) expandAll(ctx context.Context, edges []graph.Relationship) ([]ExpandedRelationship, error) {
	out := make([]ExpandedRelationship, 0, len(edges))
	for _, e := range edges {
		exp, err := x.expand(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}

func (x *expander) expand(ctx context.Context, e graph.Relationship) (ExpandedRelationship, error) {
	from, err := x.node(ctx, e.From)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	to, err := x.node(ctx, e.To)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	rel, err := x.relationshipType(ctx, e.Relationship)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	rev, err := x.relationshipType(ctx, e.ReverseRelationship)
	if err != nil {
		return ExpandedRelationship{}, err
	}
	return ExpandedRelationship{
		ID:                  e.ID,
		From:                from,
		To:                  to,
		FromModel:           e.From.Kind,
		ToModel:             e.To.Kind,
		Relationship:        rel,
		ReverseRelationship: rev,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}, nil
}

// node returns *graph.Person or *graph.Entity, or nil when the record is gone
func (x *expander) node(ctx context.Context, ref graph.NodeRef) (interface{}, error) {
	switch ref.Kind {
	case graph.KindPerson:
		if p, ok := x.persons[ref.ID]; ok {
			return nilIfMissing(p), nil
		}
		p, err := x.store.GetPerson(ctx, ref.ID)
		if err != nil && !errors.Is(err, graph.ErrNotFound) {
			return nil, apperrors.NewInternal("Internal server error", err)
		}
		var ptr *graph.Person
		if err == nil {
			ptr = &p
		}
		x.persons[ref.ID] = ptr
		return nilIfMissing(ptr), nil
	case graph.KindEntity:
		if e, ok := x.entities[ref.ID]; ok {
			return nilIfMissing(e), nil
		}
		e, err := x.store.GetEntity(ctx, ref.ID)
		if err != nil && !errors.Is(err, graph.ErrNotFound) {
			return nil, apperrors.NewInternal("Internal server error", err)
		}
		var ptr *graph.Entity
		if err == nil {
			ptr = &e
		}
		x.entities[ref.ID] = ptr
		return nilIfMissing(ptr), nil
	}
	return nil, nil
}

func (x *expander) relationshipType(ctx context.Context, id string) (*graph.RelationshipType, error) {
	if t, ok := x.types[id]; ok {
		return t, nil
	}
	t, err := x.store.GetRelationshipType(ctx, id)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			x.types[id] = nil
			return nil, nil
		}
		return nil, apperrors.NewInternal("Internal server error", err)
	}
	x.types[id] = &t
	return &t, nil
}

// nilIfMissing keeps a typed nil pointer from becoming a non-nil interface
func nilIfMissing[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return p
}
