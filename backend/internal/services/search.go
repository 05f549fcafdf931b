package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"
	"link-graph/backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResultType tags a search hit with the kind of record it holds
type ResultType string

const (
	ResultPerson ResultType = "person"
	ResultEntity ResultType = "entity"
	ResultPlace  ResultType = "place"
)

// SearchResult is one hit. Data is a graph.Person, graph.Entity or graph.Place.
type SearchResult struct {
	Type  ResultType  `json:"type"`
	Data  interface{} `json:"data"`
	Score int         `json:"score"`
}

// SearchFilter narrows a filtered search to one record kind
type SearchFilter struct {
	Type       string
	Place      string
	EntityType string
	Search     string
}

// SearchService runs the global and filtered searches
type SearchService struct {
	store   graph.Store
	timeout time.Duration
	logger  *zap.Logger
}

func NewSearchService(store graph.Store, timeout time.Duration) *SearchService {
	return &SearchService{store: store, timeout: timeout, logger: logger.Named("search")}
}

// Global matches q against persons, entities and places concurrently, then
// orders every hit by relevance. Ties keep the person, entity, place order.
func (s *SearchService) Global(ctx context.Context, q string, opts graph.ListOptions) (graph.Page[SearchResult], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return graph.Page[SearchResult]{}, apperrors.NewInvalidArgument("Search query is required")
	}
	opts, err := pagingOnly(opts)
	if err != nil {
		return graph.Page[SearchResult]{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		persons  []graph.Person
		entities []graph.Entity
		places   []graph.Place
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persons, err = s.store.SearchPersons(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		entities, err = s.store.SearchEntities(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		places, err = s.store.SearchPlaces(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Global search failed", zap.String("query", q), zap.Error(err))
		return graph.Page[SearchResult]{}, classify(err, "Search", s.logger)
	}

	results := make([]SearchResult, 0, len(persons)+len(entities)+len(places))
	for _, p := range persons {
		results = append(results, SearchResult{Type: ResultPerson, Data: p, Score: RelevanceScore(p, q)})
	}
	for _, e := range entities {
		results = append(results, SearchResult{Type: ResultEntity, Data: e, Score: RelevanceScore(e, q)})
	}
	for _, p := range places {
		results = append(results, SearchResult{Type: ResultPlace, Data: p, Score: RelevanceScore(p, q)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	s.logger.Debug("Global search",
		zap.String("query", q),
		zap.Int("persons", len(persons)),
		zap.Int("entities", len(entities)),
		zap.Int("places", len(places)))
	return graph.SlicePage(results, opts), nil
}

// Filtered searches one record kind. An unknown type yields no results.
// Hits keep storage order; Score is computed against Search when set.
func (s *SearchService) Filtered(ctx context.Context, f SearchFilter, opts graph.ListOptions) (graph.Page[SearchResult], error) {
	opts, err := pagingOnly(opts)
	if err != nil {
		return graph.Page[SearchResult]{}, err
	}
	if f.Place != "" {
		if err := checkID(f.Place, "place"); err != nil {
			return graph.Page[SearchResult]{}, err
		}
	}
	if f.EntityType != "" {
		if err := checkID(f.EntityType, "entity type"); err != nil {
			return graph.Page[SearchResult]{}, err
		}
	}

	score := func(item interface{}) int {
		if strings.TrimSpace(f.Search) == "" {
			return 0
		}
		return RelevanceScore(item, f.Search)
	}

	var results []SearchResult
	switch ResultType(f.Type) {
	case ResultPerson:
		persons, err := listAll(ctx, graph.DefaultSort, func(ctx context.Context, o graph.ListOptions) ([]graph.Person, int64, error) {
			return s.store.ListPersons(ctx, graph.PersonFilter{Search: f.Search, Place: f.Place}, o)
		})
		if err != nil {
			return graph.Page[SearchResult]{}, classify(err, resPerson, s.logger)
		}
		for _, p := range persons {
			results = append(results, SearchResult{Type: ResultPerson, Data: p, Score: score(p)})
		}
	case ResultEntity:
		entities, err := listAll(ctx, graph.DefaultSort, func(ctx context.Context, o graph.ListOptions) ([]graph.Entity, int64, error) {
			return s.store.ListEntities(ctx, graph.EntityFilter{Search: f.Search, Type: f.EntityType, Place: f.Place}, o)
		})
		if err != nil {
			return graph.Page[SearchResult]{}, classify(err, resEntity, s.logger)
		}
		for _, e := range entities {
			results = append(results, SearchResult{Type: ResultEntity, Data: e, Score: score(e)})
		}
	case ResultPlace:
		places, err := listAll(ctx, graph.DefaultSort, func(ctx context.Context, o graph.ListOptions) ([]graph.Place, int64, error) {
			return s.store.ListPlaces(ctx, graph.PlaceFilter{Search: f.Search}, o)
		})
		if err != nil {
			return graph.Page[SearchResult]{}, classify(err, resPlace, s.logger)
		}
		for _, p := range places {
			results = append(results, SearchResult{Type: ResultPlace, Data: p, Score: score(p)})
		}
	}
	return graph.SlicePage(results, opts), nil
}

// RelevanceScore ranks a record against q, case-insensitively:
// name (or first name) prefix +10, else name substring +5,
// last name substring +3, description substring +2.
func RelevanceScore(item interface{}, q string) int {
	var name, lastName, description string
	switch v := item.(type) {
	case graph.Person:
		name, lastName, description = v.FirstName, v.LastName, v.Description
	case graph.Entity:
		name, description = v.Name, v.Description
	case graph.Place:
		name, description = v.Name, v.Description
	default:
		return 0
	}

	q = strings.ToLower(strings.TrimSpace(q))
	score := 0
	switch lower := strings.ToLower(name); {
	case strings.HasPrefix(lower, q):
		score += 10
	case strings.Contains(lower, q):
		score += 5
	}
	if lastName != "" && strings.Contains(strings.ToLower(lastName), q) {
		score += 3
	}
	if description != "" && strings.Contains(strings.ToLower(description), q) {
		score += 2
	}
	return score
}

// pagingOnly validates page and limit. Search results are always ordered by
// relevance, so sort and order are ignored.
func pagingOnly(opts graph.ListOptions) (graph.ListOptions, error) {
	opts.Sort = graph.DefaultSort
	opts.Order = graph.OrderDesc
	return normalize(opts, graph.ResourcePlace)
}
