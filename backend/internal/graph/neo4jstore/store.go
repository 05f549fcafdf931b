// Package neo4jstore implements graph.Store on Neo4j. Places, persons,
// entities and the type catalogs are nodes; relationships are native
// RELATED_TO edges carrying both type ids.
package neo4jstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	"link-graph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Store handles all Neo4j database operations
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

var _ graph.Store = (*Store)(nil)

// New creates a store over an existing driver. database may be empty for the server default.
func New(driver neo4j.DriverWithContext, database string) *Store {
	return &Store{
		driver:   driver,
		database: database,
		logger:   logger.Named("neo4jstore"),
	}
}

// Connect creates a driver and verifies connectivity
func Connect(ctx context.Context, uri, user, password, database string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}
	return New(driver, database), nil
}

// Close closes the Neo4j driver connection
func (s *Store) Close() error {
	return s.driver.Close(context.Background())
}

// Ping verifies the server is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Migrate creates uniqueness constraints and lookup indexes
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT place_id_unique IF NOT EXISTS FOR (n:Place) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (n:Person) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT entity_id_unique IF NOT EXISTS FOR (n:Entity) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT entity_type_id_unique IF NOT EXISTS FOR (n:EntityType) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT entity_type_name_unique IF NOT EXISTS FOR (n:EntityType) REQUIRE n.name IS UNIQUE",
		"CREATE CONSTRAINT relationship_type_id_unique IF NOT EXISTS FOR (n:RelationshipType) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT relationship_type_name_unique IF NOT EXISTS FOR (n:RelationshipType) REQUIRE n.name IS UNIQUE",
		"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (n:User) REQUIRE n.id IS UNIQUE",
		"CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (n:User) REQUIRE n.email IS UNIQUE",
		"CREATE CONSTRAINT place_scope_unique IF NOT EXISTS FOR (n:PlaceScope) REQUIRE n.region_id IS UNIQUE",

		"CREATE INDEX place_region_id IF NOT EXISTS FOR (n:Place) ON (n.region_id)",
		"CREATE INDEX place_name IF NOT EXISTS FOR (n:Place) ON (n.name)",
		"CREATE INDEX person_place_id IF NOT EXISTS FOR (n:Person) ON (n.place_id)",
		"CREATE INDEX person_first_name IF NOT EXISTS FOR (n:Person) ON (n.first_name)",
		"CREATE INDEX entity_type_id IF NOT EXISTS FOR (n:Entity) ON (n.type_id)",
		"CREATE INDEX entity_place_id IF NOT EXISTS FOR (n:Entity) ON (n.place_id)",
		"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
		"CREATE INDEX related_to_id IF NOT EXISTS FOR ()-[r:RELATED_TO]-() ON (r.id)",
		"CREATE INDEX related_to_relationship_id IF NOT EXISTS FOR ()-[r:RELATED_TO]-() ON (r.relationship_id)",
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	s.logger.Info("Neo4j schema ready", zap.Int("statements", len(statements)))
	return nil
}

// Reset deletes every node this store owns
func (s *Store) Reset(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	query := `
		MATCH (n)
		WHERE n:Place OR n:PlaceScope OR n:Person OR n:Entity OR n:EntityType OR n:RelationshipType OR n:User
		DETACH DELETE n
	`
	if _, err := session.Run(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to reset graph: %w", err)
	}
	return nil
}

// ============================================================================
// Session helpers
// ============================================================================

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// collect runs a read query and returns the map column key of every row
func (s *Store) collect(ctx context.Context, query string, params map[string]interface{}, key string) ([]map[string]interface{}, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	rows := make([]map[string]interface{}, 0)
	for result.Next(ctx) {
		if m, ok := getMapFromRecord(result.Record(), key); ok {
			rows = append(rows, m)
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return rows, nil
}

// one runs a query expected to return a single map row, ErrNotFound otherwise
func (s *Store) one(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}, key string) (map[string]interface{}, error) {
	session := s.session(ctx, mode)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, translate(err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, translate(err)
		}
		return nil, graph.ErrNotFound
	}
	m, ok := getMapFromRecord(result.Record(), key)
	if !ok {
		return nil, graph.ErrNotFound
	}
	// Drain so write errors raised on commit surface here
	if _, err := result.Consume(ctx); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// count runs a query returning a single "total" column
func (s *Store) count(ctx context.Context, query string, params map[string]interface{}) (int64, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	if !result.Next(ctx) {
		return 0, result.Err()
	}
	return getInt64FromRecord(result.Record(), "total"), nil
}

// deleteNode detaches and deletes the node with the given label and id
func (s *Store) deleteNode(ctx context.Context, label, id string) error {
	query := fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		WITH n, n.id AS deleted
		DETACH DELETE n
		RETURN count(deleted) AS total
	`, label)

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return translate(err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return translate(err)
		}
		return graph.ErrNotFound
	}
	if getInt64FromRecord(result.Record(), "total") == 0 {
		return graph.ErrNotFound
	}
	return nil
}

// translate maps constraint violations to graph.ErrDuplicate
func translate(err error) error {
	if err == nil {
		return nil
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) && strings.Contains(neoErr.Code, "ConstraintValidationFailed") {
		return fmt.Errorf("%w: %s", graph.ErrDuplicate, neoErr.Msg)
	}
	return err
}

// ============================================================================
// Query building
// ============================================================================

// where accumulates Cypher predicates and their parameters
type where struct {
	clauses []string
	params  map[string]interface{}
}

func newWhere() *where {
	return &where{params: map[string]interface{}{}}
}

func (w *where) eq(prop, param string, value interface{}) {
	w.clauses = append(w.clauses, fmt.Sprintf("n.%s = $%s", prop, param))
	w.params[param] = value
}

// contains adds a case-insensitive substring match over any of props
func (w *where) contains(term string, props ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, fmt.Sprintf("toLower(coalesce(n.%s, '')) CONTAINS $search", p))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
	w.params["search"] = strings.ToLower(term)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// orderPage renders ORDER BY/SKIP/LIMIT for variable v and adds the paging params
func orderPage(v string, res graph.Resource, opts graph.ListOptions, params map[string]interface{}) string {
	dir := "ASC"
	if opts.Descending() {
		dir = "DESC"
	}
	params["skip"] = int64(opts.Offset())
	params["limit"] = int64(opts.Limit)
	col := opts.SortColumn(res)
	return fmt.Sprintf("ORDER BY %s.%s %s, %s.id %s SKIP $skip LIMIT $limit", v, col, dir, v, dir)
}

func now() time.Time {
	return time.Now().UTC()
}
