package neo4jstore

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"link-graph/backend/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require a running, disposable Neo4j instance. They wipe it.
// Set NEO4J_TEST_URI (and optionally NEO4J_TEST_USER, NEO4J_TEST_PASSWORD).
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, uri, envOr("NEO4J_TEST_USER", "neo4j"), envOr("NEO4J_TEST_PASSWORD", "password"), "")
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Reset(ctx))
	t.Cleanup(func() {
		_ = store.Reset(context.Background())
		_ = store.Close()
	})
	return store
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestStore_PlaceHierarchy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	north, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Northern Province"})
	require.NoError(t, err)
	jaffna, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Jaffna", Region: north.ID})
	require.NoError(t, err)
	assert.Equal(t, north.ID, jaffna.Region)
	assert.Equal(t, []string{}, jaffna.Images)

	_, err = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Jaffna", Region: north.ID})
	assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)

	n, err := store.CountSubPlaces(ctx, north.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	places, total, err := store.ListPlaces(ctx, graph.PlaceFilter{Search: "jaff"}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, places, 1)

	require.NoError(t, store.DeletePlace(ctx, jaffna.ID))
	_, err = store.GetPlace(ctx, jaffna.ID)
	assert.True(t, errors.Is(err, graph.ErrNotFound))
	assert.True(t, errors.Is(store.DeletePlace(ctx, jaffna.ID), graph.ErrNotFound))
}

func TestStore_ConcurrentPlaceNamesStayUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	north, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Northern Province"})
	require.NoError(t, err)

	for _, region := range []string{"", north.ID} {
		const writers = 8
		errs := make([]error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Kilinochchi", Region: region})
			}(i)
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			if err == nil {
				created++
				continue
			}
			assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)
		}
		assert.Equal(t, 1, created, "region %q", region)
	}

	places, total, err := store.ListPlaces(ctx, graph.PlaceFilter{Search: "kilinochchi"}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, places, 2)
}

func TestStore_RelationshipLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	me, err := store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Yathurshan"})
	require.NoError(t, err)
	mitra, err := store.CreateEntity(ctx, graph.Entity{ID: graph.NewID(), Name: "Mitra Innovation", Type: graph.NewID()})
	require.NoError(t, err)

	from := graph.NodeRef{Kind: graph.KindPerson, ID: me.ID}
	to := graph.NodeRef{Kind: graph.KindEntity, ID: mitra.ID}
	worksAt, employee := graph.NewID(), graph.NewID()

	edge, err := store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: from, To: to, Relationship: worksAt, ReverseRelationship: employee,
	})
	require.NoError(t, err)
	assert.Equal(t, from, edge.From)
	assert.Equal(t, to, edge.To)

	_, err = store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: from, To: to, Relationship: worksAt, ReverseRelationship: employee,
	})
	assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)

	_, err = store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: from, To: graph.NodeRef{Kind: graph.KindPerson, ID: graph.NewID()},
		Relationship: worksAt, ReverseRelationship: employee,
	})
	assert.True(t, errors.Is(err, graph.ErrNotFound), "got %v", err)

	edge.ReverseRelationship = worksAt
	updated, err := store.UpdateRelationship(ctx, edge)
	require.NoError(t, err)
	assert.Equal(t, edge.ID, updated.ID)
	assert.Equal(t, worksAt, updated.ReverseRelationship)
	assert.WithinDuration(t, edge.CreatedAt, updated.CreatedAt, 0)

	byNode, err := store.ListRelationshipsByNode(ctx, to)
	require.NoError(t, err)
	require.Len(t, byNode, 1)

	list, total, err := store.ListRelationships(ctx, graph.RelationshipFilter{FromModel: graph.KindPerson}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeletePerson(ctx, me.ID))
	_, err = store.GetRelationship(ctx, edge.ID)
	assert.True(t, errors.Is(err, graph.ErrNotFound))
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Yathurshan", LastName: "Kalanantharasan"})
	require.NoError(t, err)
	_, err = store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Aathi", Description: "friend of yathurshan"})
	require.NoError(t, err)

	persons, err := store.SearchPersons(ctx, "YATHUR")
	require.NoError(t, err)
	assert.Len(t, persons, 2)

	places, err := store.SearchPlaces(ctx, "nowhere")
	require.NoError(t, err)
	assert.Empty(t, places)
}
