package api

import (
	"net/http"
	"strings"
	"testing"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingID = "0123456789abcdef01234567"

func TestPersonCRUD(t *testing.T) {
	s := newTestServer(t, false)
	placeID := s.create(t, "/api/place", map[string]string{"name": "Jaffna"})

	code, resp := s.do(t, http.MethodPost, "/api/person", map[string]interface{}{
		"firstName":   "Arumuga",
		"lastName":    "Navalar",
		"dateOfBirth": "1822-12-18",
		"websites":    []string{"https://example.org/navalar"},
		"place":       placeID,
	}, "")
	require.Equal(t, http.StatusCreated, code, resp.Details)
	assert.True(t, resp.Success)
	assert.Equal(t, "Person created successfully", resp.Message)
	person := decode[graph.Person](t, resp.Data)
	assert.Equal(t, "Arumuga", person.FirstName)
	require.NotNil(t, person.DateOfBirth)
	assert.Equal(t, 1822, person.DateOfBirth.Year())
	assert.Equal(t, []string{}, person.Images)

	code, resp = s.do(t, http.MethodGet, "/api/person/"+person.ID, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, person.ID, decode[graph.Person](t, resp.Data).ID)

	code, resp = s.do(t, http.MethodPut, "/api/person/"+person.ID, map[string]interface{}{
		"description": "Scholar",
		"place":       nil,
		"dateOfBirth": nil,
	}, "")
	require.Equal(t, http.StatusOK, code, resp.Details)
	assert.Equal(t, "Person updated successfully", resp.Message)
	changed := decode[graph.Person](t, resp.Data)
	assert.Equal(t, "Scholar", changed.Description)
	assert.Equal(t, "Navalar", changed.LastName)
	assert.Empty(t, changed.Place)
	assert.Nil(t, changed.DateOfBirth)

	code, resp = s.do(t, http.MethodGet, "/api/persons?search=arumuga", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	code, resp = s.do(t, http.MethodDelete, "/api/person/"+person.ID, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Person deleted successfully", resp.Message)

	code, resp = s.do(t, http.MethodGet, "/api/person/"+person.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Person not found", resp.Error)
}

func TestPersonValidation(t *testing.T) {
	s := newTestServer(t, false)

	code, resp := s.do(t, http.MethodPost, "/api/person", nil, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, []string{"First name is required"}, resp.Details)

	code, resp = s.do(t, http.MethodPost, "/api/person", map[string]interface{}{
		"firstName":   strings.Repeat("a", 51),
		"websites":    []string{"not a url"},
		"place":       "nope",
		"dateOfBirth": "2999-01-01",
	}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Details, "First name cannot exceed 50 characters")
	assert.Contains(t, resp.Details, "Invalid URL format")
	assert.Contains(t, resp.Details, "Invalid place ID format")
	assert.Contains(t, resp.Details, "Date of birth cannot be in the future")

	code, resp = s.do(t, http.MethodPost, "/api/person", map[string]interface{}{
		"firstName": "A",
		"nickname":  "x",
	}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{`"nickname" is not allowed`}, resp.Details)

	code, resp = s.do(t, http.MethodPost, "/api/person", `{"firstName": 7}`, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"First name must be a string"}, resp.Details)

	code, resp = s.do(t, http.MethodPost, "/api/person", map[string]string{
		"firstName": "A",
		"place":     missingID,
	}, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Place not found", resp.Error)

	id := s.create(t, "/api/person", map[string]string{"firstName": "A"})
	code, resp = s.do(t, http.MethodPut, "/api/person/"+id, map[string]string{"firstName": "  "}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"First name is required"}, resp.Details)

	code, resp = s.do(t, http.MethodGet, "/api/person/xyz", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid person ID", resp.Error)
}

func TestPlaceHierarchy(t *testing.T) {
	s := newTestServer(t, false)

	country := s.create(t, "/api/place", map[string]string{"name": "Sri Lanka"})
	city := s.create(t, "/api/place", map[string]string{"name": "Jaffna", "region": country})
	s.create(t, "/api/person", map[string]string{"firstName": "A", "place": city})

	code, resp := s.do(t, http.MethodGet, "/api/place/"+country+"/sub-places", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	code, resp = s.do(t, http.MethodGet, "/api/place/"+city+"/persons", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	code, resp = s.do(t, http.MethodGet, "/api/places?region="+country, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	code, resp = s.do(t, http.MethodPut, "/api/place/"+country, map[string]string{"region": city}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "region would create a cycle", resp.Error)

	code, resp = s.do(t, http.MethodDelete, "/api/place/"+country, nil, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "place has sub-places", resp.Error)

	code, resp = s.do(t, http.MethodPut, "/api/place/"+city, map[string]interface{}{"region": nil}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[graph.Place](t, resp.Data).Region)

	code, _ = s.do(t, http.MethodDelete, "/api/place/"+country, nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestCatalogs(t *testing.T) {
	s := newTestServer(t, false)

	typeID := s.create(t, "/api/entity-types", map[string]string{"name": "Organization"})
	s.create(t, "/api/entity-types", map[string]string{"name": "Company"})

	code, resp := s.do(t, http.MethodPost, "/api/entity-types", map[string]string{"name": "Organization"}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Entity type already exists", resp.Error)

	code, resp = s.do(t, http.MethodGet, "/api/entity-types/all", nil, "")
	require.Equal(t, http.StatusOK, code)
	all := decode[[]graph.EntityType](t, resp.Data)
	require.Len(t, all, 2)
	assert.Equal(t, "Company", all[0].Name)

	code, resp = s.do(t, http.MethodPost, "/api/entity", map[string]string{"name": "Acme"}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"Entity type is required"}, resp.Details)

	s.create(t, "/api/entity", map[string]string{"name": "Acme", "type": typeID})
	code, resp = s.do(t, http.MethodGet, "/api/entity-types/"+typeID+"/entities", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	relType := s.create(t, "/api/relationship-types", map[string]string{"name": "Founder"})
	code, resp = s.do(t, http.MethodPut, "/api/relationship-types/"+relType, map[string]string{"name": "Founded by"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Relationship type updated successfully", resp.Message)
	assert.Equal(t, "Founded by", decode[graph.RelationshipType](t, resp.Data).Name)

	code, resp = s.do(t, http.MethodGet, "/api/relationship-types/all", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]graph.RelationshipType](t, resp.Data), 1)

	code, _ = s.do(t, http.MethodDelete, "/api/relationship-types/"+relType, nil, "")
	assert.Equal(t, http.StatusOK, code)
	code, resp = s.do(t, http.MethodGet, "/api/relationship-types/"+relType, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Relationship type not found", resp.Error)
}

func TestRelationshipFlow(t *testing.T) {
	s := newTestServer(t, false)

	typeID := s.create(t, "/api/entity-types", map[string]string{"name": "Organization"})
	person := s.create(t, "/api/person", map[string]string{"firstName": "Arumuga"})
	entity := s.create(t, "/api/entity", map[string]string{"name": "Saiva Society", "type": typeID})
	founder := s.create(t, "/api/relationship-types", map[string]string{"name": "Founder"})
	foundedBy := s.create(t, "/api/relationship-types", map[string]string{"name": "Founded by"})

	code, resp := s.do(t, http.MethodPost, "/api/relationship", map[string]string{"from": person}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, resp.Details, 5)

	code, resp = s.do(t, http.MethodPost, "/api/relationship", map[string]string{
		"from": person, "to": entity, "fromModel": "Robot", "toModel": "Entity",
		"relationship": founder, "reverseRelationship": foundedBy,
	}, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"From model must be either Person or Entity"}, resp.Details)

	body := map[string]string{
		"from": person, "to": entity, "fromModel": "Person", "toModel": "Entity",
		"relationship": founder, "reverseRelationship": foundedBy,
	}
	code, resp = s.do(t, http.MethodPost, "/api/relationship", body, "")
	require.Equal(t, http.StatusCreated, code, resp.Error, resp.Details)
	rel := decode[struct {
		ID           string                 `json:"id"`
		From         graph.Person           `json:"from"`
		To           graph.Entity           `json:"to"`
		Relationship graph.RelationshipType `json:"relationship"`
	}](t, resp.Data)
	assert.Equal(t, "Arumuga", rel.From.FirstName)
	assert.Equal(t, "Saiva Society", rel.To.Name)
	assert.Equal(t, "Founder", rel.Relationship.Name)

	code, resp = s.do(t, http.MethodPost, "/api/relationship", body, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Relationship already exists", resp.Error)

	code, resp = s.do(t, http.MethodGet, "/api/person/"+person+"/relationships", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]services.ExpandedRelationship](t, resp.Data), 1)

	code, resp = s.do(t, http.MethodGet, "/api/entity/"+entity+"/relationships", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]services.ExpandedRelationship](t, resp.Data), 1)

	code, resp = s.do(t, http.MethodGet, "/api/relationships?fromModel=Person&relationship="+founder, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	code, resp = s.do(t, http.MethodPut, "/api/relationship/"+rel.ID, map[string]string{"relationship": foundedBy, "reverseRelationship": founder}, "")
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, "Relationship updated successfully", resp.Message)

	code, resp = s.do(t, http.MethodPut, "/api/relationship/"+rel.ID, map[string]string{"to": missingID}, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Entity not found", resp.Error)

	code, _ = s.do(t, http.MethodDelete, "/api/relationship/"+rel.ID, nil, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/relationship/"+rel.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSearchEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	typeID := s.create(t, "/api/entity-types", map[string]string{"name": "Temple"})
	jaffna := s.create(t, "/api/place", map[string]string{"name": "Jaffna"})
	s.create(t, "/api/person", map[string]string{"firstName": "Nallur", "description": "Priest", "place": jaffna})
	s.create(t, "/api/entity", map[string]string{"name": "Nallur Kandaswamy", "type": typeID, "place": jaffna})
	s.create(t, "/api/place", map[string]string{"name": "Nallur"})
	s.create(t, "/api/place", map[string]string{"name": "Point Pedro", "description": "North of Nallur"})

	code, resp := s.do(t, http.MethodGet, "/api/search", nil, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, `Search query parameter "q" is required`, resp.Error)

	code, resp = s.do(t, http.MethodGet, "/api/search?q=nallur&limit=3", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(4), resp.Pagination.Total)
	require.Len(t, resp.Results, 3)
	first := decode[services.SearchResult](t, resp.Results[0])
	assert.Equal(t, 10, first.Score)
	last := decode[services.SearchResult](t, resp.Results[2])
	assert.GreaterOrEqual(t, first.Score, last.Score)

	code, resp = s.do(t, http.MethodGet, "/api/search/filter?type=entity&entityType="+typeID, nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, services.ResultEntity, decode[services.SearchResult](t, resp.Results[0]).Type)

	code, resp = s.do(t, http.MethodGet, "/api/search/filter?type=person&place="+jaffna+"&search=priest", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 2, decode[services.SearchResult](t, resp.Results[0]).Score)

	code, resp = s.do(t, http.MethodGet, "/api/search/filter?type=planet", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Results)
	assert.Equal(t, int64(0), resp.Pagination.Total)
}
