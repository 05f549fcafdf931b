package services

import (
	"context"
	"testing"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPlaceService_RegionValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Places.Create(ctx, PlaceInput{Name: "Jaffna", Region: "not-an-id"})
	assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "Invalid region ID")

	_, err = svc.Places.Create(ctx, PlaceInput{Name: "Jaffna", Region: graph.NewID()})
	assertErrorType(t, err, apperrors.ErrorTypeNotFound, "Region place not found")

	north, err := svc.Places.Create(ctx, PlaceInput{Name: "Northern Province"})
	require.NoError(t, err)
	assert.Empty(t, north.Region)

	jaffna, err := svc.Places.Create(ctx, PlaceInput{Name: "Jaffna", Region: north.ID})
	require.NoError(t, err)
	assert.Equal(t, north.ID, jaffna.Region)

	_, err = svc.Places.Create(ctx, PlaceInput{Name: "Jaffna", Region: north.ID})
	assertErrorType(t, err, apperrors.ErrorTypeConflict, "Place already exists")

	// uniqueness is per region, so the top level may reuse the name
	top, err := svc.Places.Create(ctx, PlaceInput{Name: "Jaffna"})
	require.NoError(t, err)
	_, err = svc.Places.Update(ctx, top.ID, PlacePatch{Region: strPtr(north.ID)})
	assertErrorType(t, err, apperrors.ErrorTypeConflict, "Place already exists")
}

func TestPlaceService_UpdateRejectsCycles(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	country, err := svc.Places.Create(ctx, PlaceInput{Name: "Sri Lanka"})
	require.NoError(t, err)
	province, err := svc.Places.Create(ctx, PlaceInput{Name: "Northern Province", Region: country.ID})
	require.NoError(t, err)
	town, err := svc.Places.Create(ctx, PlaceInput{Name: "Erlalai", Region: province.ID})
	require.NoError(t, err)

	_, err = svc.Places.Update(ctx, country.ID, PlacePatch{Region: strPtr(country.ID)})
	assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "a place cannot be its own region")

	_, err = svc.Places.Update(ctx, country.ID, PlacePatch{Region: strPtr(town.ID)})
	assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "region would create a cycle")

	updated, err := svc.Places.Update(ctx, town.ID, PlacePatch{Region: strPtr(country.ID), Description: strPtr("Village")})
	require.NoError(t, err)
	assert.Equal(t, country.ID, updated.Region)
	assert.Equal(t, "Village", updated.Description)

	moved, err := svc.Places.Update(ctx, town.ID, PlacePatch{Region: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, moved.Region)
}

func TestPlaceService_DeleteGuard(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	north, err := svc.Places.Create(ctx, PlaceInput{Name: "Northern Province"})
	require.NoError(t, err)
	jaffna, err := svc.Places.Create(ctx, PlaceInput{Name: "Jaffna", Region: north.ID})
	require.NoError(t, err)

	err = svc.Places.Delete(ctx, north.ID)
	assertErrorType(t, err, apperrors.ErrorTypeConflict, "place has sub-places")

	require.NoError(t, svc.Places.Delete(ctx, jaffna.ID))
	require.NoError(t, svc.Places.Delete(ctx, north.ID))

	err = svc.Places.Delete(ctx, north.ID)
	assertErrorType(t, err, apperrors.ErrorTypeNotFound, "Place not found")

	err = svc.Places.Delete(ctx, "123")
	assertErrorType(t, err, apperrors.ErrorTypeInvalidArgument, "Invalid place ID")
}

func TestPlaceService_Listings(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	north, err := svc.Places.Create(ctx, PlaceInput{Name: "Northern Province"})
	require.NoError(t, err)
	for _, name := range []string{"Jaffna", "Kaarainagar", "Erlalai"} {
		_, err := svc.Places.Create(ctx, PlaceInput{Name: name, Region: north.ID})
		require.NoError(t, err)
	}
	company, err := svc.EntityTypes.Create(ctx, EntityTypeInput{Name: "Company"})
	require.NoError(t, err)
	_, err = svc.Persons.Create(ctx, PersonInput{FirstName: "Aathi", Place: north.ID})
	require.NoError(t, err)
	_, err = svc.Entities.Create(ctx, EntityInput{Name: "Invorg", Type: company.ID, Place: north.ID})
	require.NoError(t, err)

	page, err := svc.Places.ListSubPlaces(ctx, north.ID, graph.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, graph.Pagination{Current: 1, Pages: 2, Count: 2, Total: 3}, page.Pagination)

	byRegion, err := svc.Places.ListByRegion(ctx, north.ID, graph.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), byRegion.Pagination.Total)

	_, err = svc.Places.ListSubPlaces(ctx, graph.NewID(), graph.ListOptions{})
	assertErrorType(t, err, apperrors.ErrorTypeNotFound, "Place not found")

	persons, err := svc.Places.ListPersons(ctx, north.ID, graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, persons.Items, 1)
	assert.Equal(t, "Aathi", persons.Items[0].FirstName)

	entities, err := svc.Places.ListEntities(ctx, north.ID, graph.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entities.Items, 1)
	assert.Equal(t, "Invorg", entities.Items[0].Name)
}
