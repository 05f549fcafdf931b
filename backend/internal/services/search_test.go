package services

import (
	"context"
	"math"
	"testing"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name string
		item interface{}
		q    string
		want int
	}{
		{"first name prefix", graph.Person{FirstName: "Yathurshan"}, "yathur", 10},
		{"first name substring", graph.Person{FirstName: "Mithurshan"}, "thur", 5},
		{"last name only", graph.Person{FirstName: "Aathi", LastName: "Kalanantharasan"}, "nantha", 3},
		{"every field", graph.Person{FirstName: "Kala", LastName: "Kalanantharasan", Description: "kala"}, "KALA", 15},
		{"entity description", graph.Entity{Name: "Invorg", Description: "software shop in Jaffna"}, "jaffna", 2},
		{"place prefix", graph.Place{Name: "Moratuwa"}, "mora", 10},
		{"no match", graph.Place{Name: "Jaffna"}, "colombo", 0},
		{"unknown record", "Jaffna", "jaffna", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevanceScore(tt.item, tt.q))
		})
	}
}

func TestSearchService_GlobalRanking(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Persons.Create(ctx, PersonInput{FirstName: "Aathi", Description: "Friend of Yathurshan"})
	require.NoError(t, err)
	_, err = svc.Places.Create(ctx, PlaceInput{Name: "Old Yathur Road"})
	require.NoError(t, err)
	shop, err := svc.EntityTypes.Create(ctx, EntityTypeInput{Name: "Shop"})
	require.NoError(t, err)
	_, err = svc.Entities.Create(ctx, EntityInput{Name: "Yathur Stores", Type: shop.ID})
	require.NoError(t, err)
	_, err = svc.Persons.Create(ctx, PersonInput{FirstName: "Yathurshan", LastName: "Kalanantharasan"})
	require.NoError(t, err)
	_, err = svc.Persons.Create(ctx, PersonInput{FirstName: "Thuvaragan"})
	require.NoError(t, err)

	page, err := svc.Search.Global(ctx, "Yathur", graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, int64(4), page.Pagination.Total)

	// Equal scores keep person before entity before place
	assert.Equal(t, ResultPerson, page.Items[0].Type)
	assert.Equal(t, "Yathurshan", page.Items[0].Data.(graph.Person).FirstName)
	assert.Equal(t, 10, page.Items[0].Score)
	assert.Equal(t, ResultEntity, page.Items[1].Type)
	assert.Equal(t, 10, page.Items[1].Score)
	assert.Equal(t, ResultPlace, page.Items[2].Type)
	assert.Equal(t, 5, page.Items[2].Score)
	assert.Equal(t, "Aathi", page.Items[3].Data.(graph.Person).FirstName)
	assert.Equal(t, 2, page.Items[3].Score)

	second, err := svc.Search.Global(ctx, "yathur", graph.ListOptions{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, graph.Pagination{Current: 2, Pages: 2, Count: 1, Total: 4}, second.Pagination)

	beyond, err := svc.Search.Global(ctx, "yathur", graph.ListOptions{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
}

func TestSearchService_GlobalTrimsQuery(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Persons.Create(ctx, PersonInput{FirstName: "Yathurshan"})
	require.NoError(t, err)

	page, err := svc.Search.Global(ctx, "  Yath\t", graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 10, page.Items[0].Score)
	assert.Equal(t, 10, RelevanceScore(graph.Person{FirstName: "Yathurshan"}, " yath "))
}

func TestSearchService_HugePageIsEmpty(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Persons.Create(ctx, PersonInput{FirstName: "Yathurshan"})
	require.NoError(t, err)

	huge := graph.ListOptions{Page: math.MaxInt, Limit: graph.MaxLimit}
	page, err := svc.Search.Global(ctx, "yathur", huge)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, math.MaxInt, page.Pagination.Current)

	filtered, err := svc.Search.Filtered(ctx, SearchFilter{Type: string(ResultPerson)}, huge)
	require.NoError(t, err)
	assert.Empty(t, filtered.Items)

	persons, err := svc.Persons.List(ctx, graph.PersonFilter{}, huge)
	require.NoError(t, err)
	assert.Empty(t, persons.Items)
	assert.Equal(t, int64(1), persons.Pagination.Total)
}

func TestSearchService_FoldsNonASCIICase(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Places.Create(ctx, PlaceInput{Name: "Ärhus"})
	require.NoError(t, err)
	_, err = svc.Persons.Create(ctx, PersonInput{FirstName: "Émile", LastName: "Ødegård"})
	require.NoError(t, err)

	page, err := svc.Search.Global(ctx, "ärhus", graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ResultPlace, page.Items[0].Type)
	assert.Equal(t, 10, page.Items[0].Score)

	page, err = svc.Search.Global(ctx, "ÉMILE", graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Émile", page.Items[0].Data.(graph.Person).FirstName)

	persons, err := svc.Persons.List(ctx, graph.PersonFilter{Search: "øDEG"}, graph.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, persons.Items, 1)
}

func TestSearchService_GlobalRequiresQuery(t *testing.T) {
	svc, _ := newTestServices(t)

	for _, q := range []string{"", "   "} {
		_, err := svc.Search.Global(context.Background(), q, graph.ListOptions{})
		assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "Search query is required")
	}
}

func TestSearchService_Filtered(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	jaffna, err := svc.Places.Create(ctx, PlaceInput{Name: "Jaffna"})
	require.NoError(t, err)
	company, err := svc.EntityTypes.Create(ctx, EntityTypeInput{Name: "Company"})
	require.NoError(t, err)
	shop, err := svc.EntityTypes.Create(ctx, EntityTypeInput{Name: "Shop"})
	require.NoError(t, err)
	_, err = svc.Entities.Create(ctx, EntityInput{Name: "Invorg", Type: company.ID, Place: jaffna.ID})
	require.NoError(t, err)
	_, err = svc.Entities.Create(ctx, EntityInput{Name: "GTN Globals", Type: company.ID})
	require.NoError(t, err)
	_, err = svc.Entities.Create(ctx, EntityInput{Name: "Jaffna Books", Type: shop.ID, Place: jaffna.ID})
	require.NoError(t, err)
	_, err = svc.Persons.Create(ctx, PersonInput{FirstName: "Nilaxshan", Place: jaffna.ID})
	require.NoError(t, err)

	page, err := svc.Search.Filtered(ctx, SearchFilter{Type: "entity", Place: jaffna.ID, EntityType: company.ID}, graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Invorg", page.Items[0].Data.(graph.Entity).Name)
	assert.Equal(t, 0, page.Items[0].Score)

	page, err = svc.Search.Filtered(ctx, SearchFilter{Type: "entity", Search: "jaffna"}, graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 10, page.Items[0].Score)

	page, err = svc.Search.Filtered(ctx, SearchFilter{Type: "person", Place: jaffna.ID}, graph.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)

	page, err = svc.Search.Filtered(ctx, SearchFilter{Type: "place"}, graph.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)

	page, err = svc.Search.Filtered(ctx, SearchFilter{Type: "planet", Search: "jaffna"}, graph.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.Pages)

	_, err = svc.Search.Filtered(ctx, SearchFilter{Type: "entity", Place: "nope"}, graph.ListOptions{})
	assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "Invalid place ID")
}
