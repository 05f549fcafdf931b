package neo4jstore

import (
	"context"
	"fmt"

	"link-graph/backend/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Places
// ============================================================================

func placeFromMap(m map[string]interface{}) graph.Place {
	return graph.Place{
		ID:          getStringFromMap(m, "id", ""),
		Name:        getStringFromMap(m, "name", ""),
		Description: getStringFromMap(m, "description", ""),
		Images:      getStringSliceFromMap(m, "images"),
		Region:      getStringFromMap(m, "region_id", ""),
		CreatedAt:   getTimeFromMap(m, "created_at"),
		UpdatedAt:   getTimeFromMap(m, "updated_at"),
	}
}

func placeProps(p graph.Place) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"images":      listParam(p.Images),
		"region_id":   p.Region,
		"updated_at":  now(),
	}
}

// CreatePlace checks (name, region) uniqueness and creates inside one write transaction
func (s *Store) CreatePlace(ctx context.Context, p graph.Place) (graph.Place, error) {
	props := placeProps(p)
	props["id"] = p.ID
	props["created_at"] = now()

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := lockPlaceScope(ctx, tx, p.Region); err != nil {
			return nil, err
		}
		if err := placeNameTaken(ctx, tx, p.Name, p.Region, p.ID); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, `CREATE (n:Place) SET n = $props RETURN n {.*} AS n`,
			map[string]interface{}{"props": props})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		m, _ := getMapFromRecord(record, "n")
		return placeFromMap(m), nil
	})
	if err != nil {
		return graph.Place{}, fmt.Errorf("create place: %w", translate(err))
	}
	return out.(graph.Place), nil
}

// lockPlaceScope write-locks the scope node for region ("" is the top level)
// so concurrent writers naming places in that region run one at a time
func lockPlaceScope(ctx context.Context, tx neo4j.ManagedTransaction, region string) error {
	_, err := tx.Run(ctx, `
		MERGE (l:PlaceScope {region_id: $region})
		SET l.version = coalesce(l.version, 0) + 1
	`, map[string]interface{}{"region": region})
	return err
}

func placeNameTaken(ctx context.Context, tx neo4j.ManagedTransaction, name, region, selfID string) error {
	result, err := tx.Run(ctx, `
		MATCH (n:Place {name: $name, region_id: $region})
		WHERE n.id <> $id
		RETURN count(n) AS total
	`, map[string]interface{}{"name": name, "region": region, "id": selfID})
	if err != nil {
		return err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return err
	}
	if getInt64FromRecord(record, "total") > 0 {
		return fmt.Errorf("place %q in region %q: %w", name, region, graph.ErrDuplicate)
	}
	return nil
}

func (s *Store) GetPlace(ctx context.Context, id string) (graph.Place, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:Place {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.Place{}, fmt.Errorf("get place: %w", err)
	}
	return placeFromMap(m), nil
}

func (s *Store) UpdatePlace(ctx context.Context, p graph.Place) (graph.Place, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := lockPlaceScope(ctx, tx, p.Region); err != nil {
			return nil, err
		}
		if err := placeNameTaken(ctx, tx, p.Name, p.Region, p.ID); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, `MATCH (n:Place {id: $id}) SET n += $props RETURN n {.*} AS n`,
			map[string]interface{}{"id": p.ID, "props": placeProps(p)})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, graph.ErrNotFound
		}
		m, _ := getMapFromRecord(result.Record(), "n")
		return placeFromMap(m), nil
	})
	if err != nil {
		return graph.Place{}, fmt.Errorf("update place: %w", translate(err))
	}
	return out.(graph.Place), nil
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	if err := s.deleteNode(ctx, "Place", id); err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	return nil
}

func (s *Store) ListPlaces(ctx context.Context, f graph.PlaceFilter, opts graph.ListOptions) ([]graph.Place, int64, error) {
	w := newWhere()
	w.contains(f.Search, "name", "description")
	if f.Region != "" {
		w.eq("region_id", "region", f.Region)
	}

	total, err := s.count(ctx, fmt.Sprintf("MATCH (n:Place) %s RETURN count(n) AS total", w), w.params)
	if err != nil {
		return nil, 0, fmt.Errorf("count places: %w", err)
	}

	query := fmt.Sprintf("MATCH (n:Place) %s RETURN n {.*} AS n %s", w, orderPage("n", graph.ResourcePlace, opts, w.params))
	rows, err := s.collect(ctx, query, w.params, "n")
	if err != nil {
		return nil, 0, fmt.Errorf("list places: %w", err)
	}

	places := make([]graph.Place, 0, len(rows))
	for _, m := range rows {
		places = append(places, placeFromMap(m))
	}
	return places, total, nil
}

func (s *Store) CountSubPlaces(ctx context.Context, id string) (int64, error) {
	return s.count(ctx, "MATCH (n:Place {region_id: $id}) RETURN count(n) AS total", map[string]interface{}{"id": id})
}

// ============================================================================
// Persons
// ============================================================================

func personFromMap(m map[string]interface{}) graph.Person {
	return graph.Person{
		ID:          getStringFromMap(m, "id", ""),
		FirstName:   getStringFromMap(m, "first_name", ""),
		LastName:    getStringFromMap(m, "last_name", ""),
		Description: getStringFromMap(m, "description", ""),
		DateOfBirth: getTimePtrFromMap(m, "date_of_birth"),
		Websites:    getStringSliceFromMap(m, "websites"),
		Images:      getStringSliceFromMap(m, "images"),
		Place:       getStringFromMap(m, "place_id", ""),
		CreatedAt:   getTimeFromMap(m, "created_at"),
		UpdatedAt:   getTimeFromMap(m, "updated_at"),
	}
}

func personProps(p graph.Person) map[string]interface{} {
	return map[string]interface{}{
		"first_name":    p.FirstName,
		"last_name":     p.LastName,
		"description":   p.Description,
		"date_of_birth": timeParam(p.DateOfBirth),
		"websites":      listParam(p.Websites),
		"images":        listParam(p.Images),
		"place_id":      p.Place,
		"updated_at":    now(),
	}
}

func (s *Store) CreatePerson(ctx context.Context, p graph.Person) (graph.Person, error) {
	props := personProps(p)
	props["id"] = p.ID
	props["created_at"] = now()

	m, err := s.one(ctx, neo4j.AccessModeWrite, `CREATE (n:Person) SET n = $props RETURN n {.*} AS n`,
		map[string]interface{}{"props": props}, "n")
	if err != nil {
		return graph.Person{}, fmt.Errorf("create person: %w", err)
	}
	return personFromMap(m), nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (graph.Person, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:Person {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.Person{}, fmt.Errorf("get person: %w", err)
	}
	return personFromMap(m), nil
}

func (s *Store) UpdatePerson(ctx context.Context, p graph.Person) (graph.Person, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `MATCH (n:Person {id: $id}) SET n += $props RETURN n {.*} AS n`,
		map[string]interface{}{"id": p.ID, "props": personProps(p)}, "n")
	if err != nil {
		return graph.Person{}, fmt.Errorf("update person: %w", err)
	}
	return personFromMap(m), nil
}

// DeletePerson detaches the node, which removes its RELATED_TO edges
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	if err := s.deleteNode(ctx, "Person", id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (s *Store) ListPersons(ctx context.Context, f graph.PersonFilter, opts graph.ListOptions) ([]graph.Person, int64, error) {
	w := newWhere()
	w.contains(f.Search, "first_name", "last_name", "description")
	if f.Place != "" {
		w.eq("place_id", "place", f.Place)
	}

	total, err := s.count(ctx, fmt.Sprintf("MATCH (n:Person) %s RETURN count(n) AS total", w), w.params)
	if err != nil {
		return nil, 0, fmt.Errorf("count persons: %w", err)
	}

	query := fmt.Sprintf("MATCH (n:Person) %s RETURN n {.*} AS n %s", w, orderPage("n", graph.ResourcePerson, opts, w.params))
	rows, err := s.collect(ctx, query, w.params, "n")
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}

	persons := make([]graph.Person, 0, len(rows))
	for _, m := range rows {
		persons = append(persons, personFromMap(m))
	}
	return persons, total, nil
}

// ============================================================================
// Entities
// ============================================================================

func entityFromMap(m map[string]interface{}) graph.Entity {
	return graph.Entity{
		ID:          getStringFromMap(m, "id", ""),
		Type:        getStringFromMap(m, "type_id", ""),
		Name:        getStringFromMap(m, "name", ""),
		Description: getStringFromMap(m, "description", ""),
		Websites:    getStringSliceFromMap(m, "websites"),
		Images:      getStringSliceFromMap(m, "images"),
		Place:       getStringFromMap(m, "place_id", ""),
		CreatedAt:   getTimeFromMap(m, "created_at"),
		UpdatedAt:   getTimeFromMap(m, "updated_at"),
	}
}

func entityProps(e graph.Entity) map[string]interface{} {
	return map[string]interface{}{
		"type_id":     e.Type,
		"name":        e.Name,
		"description": e.Description,
		"websites":    listParam(e.Websites),
		"images":      listParam(e.Images),
		"place_id":    e.Place,
		"updated_at":  now(),
	}
}

func (s *Store) CreateEntity(ctx context.Context, e graph.Entity) (graph.Entity, error) {
	props := entityProps(e)
	props["id"] = e.ID
	props["created_at"] = now()

	m, err := s.one(ctx, neo4j.AccessModeWrite, `CREATE (n:Entity) SET n = $props RETURN n {.*} AS n`,
		map[string]interface{}{"props": props}, "n")
	if err != nil {
		return graph.Entity{}, fmt.Errorf("create entity: %w", err)
	}
	return entityFromMap(m), nil
}

func (s *Store) GetEntity(ctx context.Context, id string) (graph.Entity, error) {
	m, err := s.one(ctx, neo4j.AccessModeRead, `MATCH (n:Entity {id: $id}) RETURN n {.*} AS n`,
		map[string]interface{}{"id": id}, "n")
	if err != nil {
		return graph.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	return entityFromMap(m), nil
}

func (s *Store) UpdateEntity(ctx context.Context, e graph.Entity) (graph.Entity, error) {
	m, err := s.one(ctx, neo4j.AccessModeWrite, `MATCH (n:Entity {id: $id}) SET n += $props RETURN n {.*} AS n`,
		map[string]interface{}{"id": e.ID, "props": entityProps(e)}, "n")
	if err != nil {
		return graph.Entity{}, fmt.Errorf("update entity: %w", err)
	}
	return entityFromMap(m), nil
}

func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	if err := s.deleteNode(ctx, "Entity", id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

func (s *Store) ListEntities(ctx context.Context, f graph.EntityFilter, opts graph.ListOptions) ([]graph.Entity, int64, error) {
	w := newWhere()
	w.contains(f.Search, "name", "description")
	if f.Type != "" {
		w.eq("type_id", "type", f.Type)
	}
	if f.Place != "" {
		w.eq("place_id", "place", f.Place)
	}

	total, err := s.count(ctx, fmt.Sprintf("MATCH (n:Entity) %s RETURN count(n) AS total", w), w.params)
	if err != nil {
		return nil, 0, fmt.Errorf("count entities: %w", err)
	}

	query := fmt.Sprintf("MATCH (n:Entity) %s RETURN n {.*} AS n %s", w, orderPage("n", graph.ResourceEntity, opts, w.params))
	rows, err := s.collect(ctx, query, w.params, "n")
	if err != nil {
		return nil, 0, fmt.Errorf("list entities: %w", err)
	}

	entities := make([]graph.Entity, 0, len(rows))
	for _, m := range rows {
		entities = append(entities, entityFromMap(m))
	}
	return entities, total, nil
}
