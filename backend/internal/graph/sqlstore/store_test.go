package sqlstore

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"link-graph/backend/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := OpenStore(filepath.Join(t.TempDir(), "link_test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPlaceCRUDAndHierarchy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	north, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Northern Province"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, north.Images)
	assert.False(t, north.CreatedAt.IsZero())

	jaffna, err := store.CreatePlace(ctx, graph.Place{
		ID: graph.NewID(), Name: "Jaffna", Region: north.ID, Images: []string{"https://img.example/jaffna.png"},
	})
	require.NoError(t, err)

	got, err := store.GetPlace(ctx, jaffna.ID)
	require.NoError(t, err)
	assert.Equal(t, north.ID, got.Region)
	assert.Equal(t, []string{"https://img.example/jaffna.png"}, got.Images)

	n, err := store.CountSubPlaces(ctx, north.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	places, total, err := store.ListPlaces(ctx, graph.PlaceFilter{Region: north.ID}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, places, 1)
	assert.Equal(t, "Jaffna", places[0].Name)

	got.Description = "A place in Northern Sri Lanka"
	got.Region = ""
	updated, err := store.UpdatePlace(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "A place in Northern Sri Lanka", updated.Description)
	assert.Empty(t, updated.Region)
	assert.Equal(t, jaffna.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.NoError(t, store.DeletePlace(ctx, jaffna.ID))
	_, err = store.GetPlace(ctx, jaffna.ID)
	assert.True(t, errors.Is(err, graph.ErrNotFound))
	assert.True(t, errors.Is(store.DeletePlace(ctx, jaffna.ID), graph.ErrNotFound))
}

func TestPlaceNameUniqueWithinRegion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Erlalai"})
	require.NoError(t, err)
	_, err = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Erlalai"})
	assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)

	jaffna, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Jaffna"})
	require.NoError(t, err)
	_, err = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Erlalai", Region: jaffna.ID})
	require.NoError(t, err)
	_, err = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Erlalai", Region: jaffna.ID})
	assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.UpdatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Ghost"})
	assert.True(t, errors.Is(err, graph.ErrNotFound))
}

func TestListPersonsPaginationAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"Aathi", "Nilaxshan", "Sivapriyan", "Thuvaragan", "Mithurshan"} {
		_, err := store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: name})
		require.NoError(t, err)
	}

	opts := graph.ListOptions{Page: 1, Limit: 2, Sort: "firstName", Order: graph.OrderAsc}
	persons, total, err := store.ListPersons(ctx, graph.PersonFilter{}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, persons, 2)
	assert.Equal(t, "Aathi", persons[0].FirstName)
	assert.Equal(t, "Mithurshan", persons[1].FirstName)

	opts.Page = 3
	persons, _, err = store.ListPersons(ctx, graph.PersonFilter{}, opts)
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "Thuvaragan", persons[0].FirstName)

	persons, total, err = store.ListPersons(ctx, graph.PersonFilter{Search: "SHAN"}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, persons, 2)
}

func TestSearchEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "100% Town"})
	require.NoError(t, err)
	_, err = store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "1000 Village"})
	require.NoError(t, err)

	places, err := store.SearchPlaces(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "100% Town", places[0].Name)
}

func TestSearchFoldsUnicodeCase(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Ärhus"})
	require.NoError(t, err)
	_, err = store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Zoë", Description: "ÇAVUŞOĞLU"})
	require.NoError(t, err)

	places, err := store.SearchPlaces(ctx, "ärhus")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Ärhus", places[0].Name)

	persons, err := store.SearchPersons(ctx, "ZOË")
	require.NoError(t, err)
	assert.Len(t, persons, 1)

	persons, total, err := store.ListPersons(ctx, graph.PersonFilter{Search: "çavuş"}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, persons, 1)
}

func TestHugeOffsetReturnsNoRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Aathi"})
	require.NoError(t, err)

	opts := graph.ListOptions{Page: math.MaxInt, Limit: graph.MaxLimit, Sort: graph.DefaultSort, Order: graph.OrderAsc}
	persons, total, err := store.ListPersons(ctx, graph.PersonFilter{}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, persons)
}

func TestRelationshipTripleIsUnique(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a := graph.NodeRef{Kind: graph.KindPerson, ID: graph.NewID()}
	b := graph.NodeRef{Kind: graph.KindEntity, ID: graph.NewID()}
	worksAt, employee := graph.NewID(), graph.NewID()

	first, err := store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: a, To: b, Relationship: worksAt, ReverseRelationship: employee,
	})
	require.NoError(t, err)
	assert.Equal(t, graph.KindEntity, first.To.Kind)

	_, err = store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: a, To: b, Relationship: worksAt, ReverseRelationship: employee,
	})
	assert.True(t, errors.Is(err, graph.ErrDuplicate), "got %v", err)

	// The inverse statement is a distinct triple
	_, err = store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: b, To: a, Relationship: worksAt, ReverseRelationship: employee,
	})
	require.NoError(t, err)

	found, err := store.FindRelationship(ctx, a.ID, b.ID, worksAt)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = store.FindRelationship(ctx, a.ID, b.ID, employee)
	assert.True(t, errors.Is(err, graph.ErrNotFound))
}

func TestListRelationshipsFiltersAndByNode(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	me := graph.NodeRef{Kind: graph.KindPerson, ID: graph.NewID()}
	brother := graph.NodeRef{Kind: graph.KindPerson, ID: graph.NewID()}
	company := graph.NodeRef{Kind: graph.KindEntity, ID: graph.NewID()}
	sibling, worksAt, employee := graph.NewID(), graph.NewID(), graph.NewID()

	for _, r := range []graph.Relationship{
		{From: me, To: brother, Relationship: sibling, ReverseRelationship: sibling},
		{From: me, To: company, Relationship: worksAt, ReverseRelationship: employee},
		{From: brother, To: company, Relationship: worksAt, ReverseRelationship: employee},
	} {
		r.ID = graph.NewID()
		_, err := store.CreateRelationship(ctx, r)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	rels, total, err := store.ListRelationships(ctx, graph.RelationshipFilter{From: me.ID}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rels, 2)

	rels, total, err = store.ListRelationships(ctx, graph.RelationshipFilter{ToModel: graph.KindEntity, Relationship: worksAt}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rels, 2)

	rels, err = store.ListRelationshipsByNode(ctx, brother)
	require.NoError(t, err)
	assert.Len(t, rels, 2, "one incoming and one outgoing edge")

	// Same id under the other kind matches nothing
	rels, err = store.ListRelationshipsByNode(ctx, graph.NodeRef{Kind: graph.KindEntity, ID: brother.ID})
	require.NoError(t, err)
	assert.Empty(t, rels)
}

func TestDeletePersonRemovesIncidentEdges(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p, err := store.CreatePerson(ctx, graph.Person{ID: graph.NewID(), FirstName: "Kalanantharasan"})
	require.NoError(t, err)
	e, err := store.CreateEntity(ctx, graph.Entity{ID: graph.NewID(), Type: graph.NewID(), Name: "Invorg"})
	require.NoError(t, err)

	pRef := graph.NodeRef{Kind: graph.KindPerson, ID: p.ID}
	eRef := graph.NodeRef{Kind: graph.KindEntity, ID: e.ID}
	_, err = store.CreateRelationship(ctx, graph.Relationship{
		ID: graph.NewID(), From: pRef, To: eRef, Relationship: graph.NewID(), ReverseRelationship: graph.NewID(),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeletePerson(ctx, p.ID))

	rels, err := store.ListRelationshipsByNode(ctx, eRef)
	require.NoError(t, err)
	assert.Empty(t, rels)
}

func TestCatalogUniqueNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreateEntityType(ctx, graph.EntityType{ID: graph.NewID(), Name: "Company"})
	require.NoError(t, err)
	_, err = store.CreateEntityType(ctx, graph.EntityType{ID: graph.NewID(), Name: "Company"})
	assert.True(t, errors.Is(err, graph.ErrDuplicate))

	parent, err := store.CreateRelationshipType(ctx, graph.RelationshipType{ID: graph.NewID(), Name: "parent"})
	require.NoError(t, err)
	child, err := store.CreateRelationshipType(ctx, graph.RelationshipType{ID: graph.NewID(), Name: "child"})
	require.NoError(t, err)

	child.Name = "parent"
	_, err = store.UpdateRelationshipType(ctx, child)
	assert.True(t, errors.Is(err, graph.ErrDuplicate))

	types, total, err := store.ListRelationshipTypes(ctx, graph.ListOptions{Page: 1, Limit: 10, Sort: "name", Order: graph.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "child", types[0].Name)
	assert.Equal(t, parent.ID, types[1].ID)
}

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	u, err := store.UpsertUser(ctx, graph.User{Email: "Admin@Example.com", Name: "Admin", Role: graph.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.IsActive)

	again, err := store.UpsertUser(ctx, graph.User{Email: "admin@example.com", Name: "Renamed", Role: graph.RoleUser, IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Renamed", again.Name)
	assert.False(t, again.IsActive)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.CreatePlace(ctx, graph.Place{ID: graph.NewID(), Name: "Moratuwa"})
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx))

	_, total, err := store.ListPlaces(ctx, graph.PlaceFilter{}, graph.DefaultListOptions())
	require.NoError(t, err)
	assert.Zero(t, total)
}
