// Package services holds the business rules for places, persons, entities,
// the type catalogs, relationships, search and API tokens. Services take a
// graph.Store, validate references and classify storage errors into
// apperrors values the API maps to status codes.
package services

import (
	"context"
	"errors"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"
	"link-graph/backend/pkg/logger"

	"go.uber.org/zap"
)

// Resource display names used in error messages
const (
	resPlace            = "Place"
	resPerson           = "Person"
	resEntity           = "Entity"
	resEntityType       = "Entity type"
	resRelationshipType = "Relationship type"
	resRelationship     = "Relationship"
)

// Options configures the service set
type Options struct {
	SearchTimeout time.Duration
	JWTSecret     string
	JWTExpiresIn  time.Duration
}

// Services bundles every service over one store
type Services struct {
	Places            *PlaceService
	Persons           *PersonService
	Entities          *EntityService
	EntityTypes       *EntityTypeService
	RelationshipTypes *RelationshipTypeService
	Relationships     *RelationshipService
	Search            *SearchService
	Auth              *AuthService
}

// New wires all services to store
func New(store graph.Store, opts Options) *Services {
	log := logger.Named("services")
	return &Services{
		Places:            &PlaceService{store: store, logger: log},
		Persons:           &PersonService{store: store, logger: log},
		Entities:          &EntityService{store: store, logger: log},
		EntityTypes:       &EntityTypeService{store: store, logger: log},
		RelationshipTypes: &RelationshipTypeService{store: store, logger: log},
		Relationships:     &RelationshipService{store: store, logger: log},
		Search:            NewSearchService(store, opts.SearchTimeout),
		Auth:              NewAuthService(store, opts.JWTSecret, opts.JWTExpiresIn),
	}
}

// classify turns store sentinels into typed errors for resource
func classify(err error, resource string, log *zap.Logger) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsBaseError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, graph.ErrNotFound):
		return apperrors.NewNotFound(resource)
	case errors.Is(err, graph.ErrDuplicate):
		log.Warn("Uniqueness conflict", zap.String("resource", resource), zap.Error(err))
		return apperrors.NewAlreadyExists(resource, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewInternal("Request timed out", err)
	default:
		log.Error("Store operation failed", zap.String("resource", resource), zap.Error(err))
		return apperrors.NewInternal("Internal server error", err)
	}
}

// checkID rejects ids that are not in the 24 hex character form
func checkID(id, resource string) error {
	if !graph.IsValidID(id) {
		return apperrors.NewInvalidID(resource)
	}
	return nil
}

// normalize applies list defaults and turns range errors into InvalidArgument
func normalize(opts graph.ListOptions, res graph.Resource) (graph.ListOptions, error) {
	out, err := opts.Normalize(res)
	if err != nil {
		return out, apperrors.NewInvalidArgument(err.Error())
	}
	return out, nil
}

// requireRef checks that an optional reference points at an existing record.
// An empty id means "no reference" and always passes.
func requireRef(ctx context.Context, id, idLabel, resource string, get func(context.Context, string) error, log *zap.Logger) error {
	if id == "" {
		return nil
	}
	if !graph.IsValidID(id) {
		return apperrors.NewInvalidID(idLabel)
	}
	if err := get(ctx, id); err != nil {
		return classify(err, resource, log)
	}
	return nil
}

// listAll drains a paginated list in MaxLimit sized pages, ascending by sort
func listAll[T any](ctx context.Context, sort string, list func(context.Context, graph.ListOptions) ([]T, int64, error)) ([]T, error) {
	opts := graph.ListOptions{Page: 1, Limit: graph.MaxLimit, Sort: sort, Order: graph.OrderAsc}
	var all []T
	for {
		items, total, err := list(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || int64(len(all)) >= total {
			break
		}
		opts.Page++
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

// orEmpty keeps list fields non-nil so they serialize as []
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
