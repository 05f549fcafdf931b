package neo4jstore

import (
	"context"
	"fmt"
	"time"

	"link-graph/backend/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Relationship Operations
// ============================================================================

// edgeProjection returns the edge properties plus endpoint ids for variable r between a and b
const edgeProjection = `r {.*, from_id: a.id, to_id: b.id} AS r`

func relationshipFromMap(m map[string]interface{}) graph.Relationship {
	return graph.Relationship{
		ID: getStringFromMap(m, "id", ""),
		From: graph.NodeRef{
			Kind: graph.NodeKind(getStringFromMap(m, "from_model", "")),
			ID:   getStringFromMap(m, "from_id", ""),
		},
		To: graph.NodeRef{
			Kind: graph.NodeKind(getStringFromMap(m, "to_model", "")),
			ID:   getStringFromMap(m, "to_id", ""),
		},
		Relationship:        getStringFromMap(m, "relationship_id", ""),
		ReverseRelationship: getStringFromMap(m, "reverse_relationship_id", ""),
		CreatedAt:           getTimeFromMap(m, "created_at"),
		UpdatedAt:           getTimeFromMap(m, "updated_at"),
	}
}

func label(k graph.NodeKind) (string, error) {
	if !k.Valid() {
		return "", fmt.Errorf("invalid node kind %q", k)
	}
	return string(k), nil
}

// lockNode takes a write lock on the source node so concurrent edge writes
// from the same node serialize and the duplicate check below sees committed data.
func lockNode(ctx context.Context, tx neo4j.ManagedTransaction, ref graph.NodeRef) error {
	lbl, err := label(ref.Kind)
	if err != nil {
		return err
	}
	result, err := tx.Run(ctx, fmt.Sprintf(`
		MATCH (a:%s {id: $id})
		SET a.edge_version = coalesce(a.edge_version, 0) + 1
		RETURN a.id AS id
	`, lbl), map[string]interface{}{"id": ref.ID})
	if err != nil {
		return err
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%s %s: %w", ref.Kind, ref.ID, graph.ErrNotFound)
	}
	return nil
}

func tripleTaken(ctx context.Context, tx neo4j.ManagedTransaction, r graph.Relationship) error {
	result, err := tx.Run(ctx, `
		MATCH (a {id: $from})-[r:RELATED_TO]->(b {id: $to})
		WHERE r.relationship_id = $relationship AND r.id <> $id
		RETURN count(r) AS total
	`, map[string]interface{}{
		"from": r.From.ID, "to": r.To.ID, "relationship": r.Relationship, "id": r.ID,
	})
	if err != nil {
		return err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return err
	}
	if getInt64FromRecord(record, "total") > 0 {
		return fmt.Errorf("relationship %s -> %s: %w", r.From.ID, r.To.ID, graph.ErrDuplicate)
	}
	return nil
}

func createEdge(ctx context.Context, tx neo4j.ManagedTransaction, r graph.Relationship, createdAt time.Time) (graph.Relationship, error) {
	fromLabel, err := label(r.From.Kind)
	if err != nil {
		return graph.Relationship{}, err
	}
	toLabel, err := label(r.To.Kind)
	if err != nil {
		return graph.Relationship{}, err
	}

	query := fmt.Sprintf(`
		MATCH (a:%s {id: $from}), (b:%s {id: $to})
		CREATE (a)-[r:RELATED_TO {
			id: $id,
			from_model: $fromModel,
			to_model: $toModel,
			relationship_id: $relationship,
			reverse_relationship_id: $reverse,
			created_at: $createdAt,
			updated_at: $updatedAt
		}]->(b)
		RETURN %s
	`, fromLabel, toLabel, edgeProjection)

	result, err := tx.Run(ctx, query, map[string]interface{}{
		"id":           r.ID,
		"from":         r.From.ID,
		"to":           r.To.ID,
		"fromModel":    string(r.From.Kind),
		"toModel":      string(r.To.Kind),
		"relationship": r.Relationship,
		"reverse":      r.ReverseRelationship,
		"createdAt":    createdAt,
		"updatedAt":    now(),
	})
	if err != nil {
		return graph.Relationship{}, err
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return graph.Relationship{}, err
		}
		return graph.Relationship{}, fmt.Errorf("endpoint of relationship: %w", graph.ErrNotFound)
	}
	m, _ := getMapFromRecord(result.Record(), "r")
	return relationshipFromMap(m), nil
}

// CreateRelationship locks the source node, re-checks the triple and creates the edge in one transaction
func (s *Store) CreateRelationship(ctx context.Context, r graph.Relationship) (graph.Relationship, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := lockNode(ctx, tx, r.From); err != nil {
			return nil, err
		}
		if err := tripleTaken(ctx, tx, r); err != nil {
			return nil, err
		}
		return createEdge(ctx, tx, r, now())
	})
	if err != nil {
		return graph.Relationship{}, fmt.Errorf("create relationship: %w", translate(err))
	}
	return out.(graph.Relationship), nil
}

func (s *Store) GetRelationship(ctx context.Context, id string) (graph.Relationship, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead,
		`MATCH (a)-[r:RELATED_TO {id: $id}]->(b) RETURN `+edgeProjection,
		map[string]interface{}{"id": id}, "r")
	if err != nil {
		return graph.Relationship{}, fmt.Errorf("get relationship: %w", err)
	}
	return relationshipFromMap(m), nil
}

func (s *Store) FindRelationship(ctx context.Context, fromID, toID, relationshipID string) (graph.Relationship, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `
		MATCH (a:Person|Entity {id: $from})-[r:RELATED_TO]->(b:Person|Entity {id: $to})
		WHERE r.relationship_id = $relationship
		RETURN `+edgeProjection+` LIMIT 1
	`, map[string]interface{}{"from": fromID, "to": toID, "relationship": relationshipID}, "r")
	if err != nil {
		return graph.Relationship{}, fmt.Errorf("find relationship: %w", err)
	}
	return relationshipFromMap(m), nil
}

// UpdateRelationship replaces the edge, keeping its id and creation time.
// Endpoints may change, so the old edge is deleted and a new one created.
func (s *Store) UpdateRelationship(ctx context.Context, r graph.Relationship) (graph.Relationship, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := lockNode(ctx, tx, r.From); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, `
			MATCH ()-[old:RELATED_TO {id: $id}]->()
			WITH old, old.created_at AS created
			DELETE old
			RETURN created
		`, map[string]interface{}{"id": r.ID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, graph.ErrNotFound
		}
		createdAt := now()
		if v, ok := result.Record().Get("created"); ok {
			if t, ok := v.(time.Time); ok {
				createdAt = t
			}
		}
		if err := tripleTaken(ctx, tx, r); err != nil {
			return nil, err
		}
		return createEdge(ctx, tx, r, createdAt)
	})
	if err != nil {
		return graph.Relationship{}, fmt.Errorf("update relationship: %w", translate(err))
	}
	return out.(graph.Relationship), nil
}

func (s *Store) DeleteRelationship(ctx context.Context, id string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH ()-[r:RELATED_TO {id: $id}]->()
		WITH r, r.id AS deleted
		DELETE r
		RETURN count(deleted) AS total
	`, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	if !result.Next(ctx) {
		return fmt.Errorf("delete relationship: %w", graph.ErrNotFound)
	}
	if getInt64FromRecord(result.Record(), "total") == 0 {
		return fmt.Errorf("delete relationship: %w", graph.ErrNotFound)
	}
	return nil
}

func (s *Store) ListRelationships(ctx context.Context, f graph.RelationshipFilter, opts graph.ListOptions) ([]graph.Relationship, int64, error) {
	var clauses []string
	params := map[string]interface{}{}
	if f.From != "" {
		clauses = append(clauses, "a.id = $from")
		params["from"] = f.From
	}
	if f.To != "" {
		clauses = append(clauses, "b.id = $to")
		params["to"] = f.To
	}
	if f.FromModel != "" {
		clauses = append(clauses, "r.from_model = $fromModel")
		params["fromModel"] = string(f.FromModel)
	}
	if f.ToModel != "" {
		clauses = append(clauses, "r.to_model = $toModel")
		params["toModel"] = string(f.ToModel)
	}
	if f.Relationship != "" {
		clauses = append(clauses, "r.relationship_id = $relationship")
		params["relationship"] = f.Relationship
	}
	whereClause := ""
	for i, c := range clauses {
		if i == 0 {
			whereClause = "WHERE " + c
			continue
		}
		whereClause += " AND " + c
	}

	match := "MATCH (a)-[r:RELATED_TO]->(b) " + whereClause
	total, err := s.count(ctx, match+" RETURN count(r) AS total", params)
	if err != nil {
		return nil, 0, fmt.Errorf("count relationships: %w", err)
	}

	query := match + " RETURN " + edgeProjection + " " + orderPage("r", graph.ResourceRelationship, opts, params)
	rows, err := s.collect(ctx, query, params, "r")
	if err != nil {
		return nil, 0, fmt.Errorf("list relationships: %w", err)
	}
	return relationshipsFromMaps(rows), total, nil
}

func (s *Store) ListRelationshipsByNode(ctx context.Context, node graph.NodeRef) ([]graph.Relationship, error) {
	lbl, err := label(node.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		MATCH (a)-[r:RELATED_TO]->(b)
		WHERE a = n OR b = n
		RETURN %s
		ORDER BY r.created_at DESC, r.id DESC
	`, lbl, edgeProjection)

	rows, err := s.collect(ctx, query, map[string]interface{}{"id": node.ID}, "r")
	if err != nil {
		return nil, fmt.Errorf("list relationships by node: %w", err)
	}
	return relationshipsFromMaps(rows), nil
}

func relationshipsFromMaps(rows []map[string]interface{}) []graph.Relationship {
	out := make([]graph.Relationship, 0, len(rows))
	for _, m := range rows {
		out = append(out, relationshipFromMap(m))
	}
	return out
}
