package api

import (
	"strings"
	"time"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type personBody struct {
	FirstName   Field[string]   `json:"firstName" binding:"omitempty,max=50"`
	LastName    Field[string]   `json:"lastName" binding:"omitempty,max=50"`
	Description Field[string]   `json:"description" binding:"omitempty,max=500"`
	DateOfBirth Field[string]   `json:"dateOfBirth"`
	Websites    Field[[]string] `json:"websites" binding:"omitempty,dive,weburl"`
	Images      Field[[]string] `json:"images" binding:"omitempty,dive,weburl"`
	Place       Field[string]   `json:"place" binding:"omitempty,objectid"`

	create bool
	dob    *time.Time
}

func (b *personBody) validate() []string {
	details := required(nil, b.create, "firstName", b.FirstName)
	if b.DateOfBirth.Present() && strings.TrimSpace(b.DateOfBirth.Value) != "" {
		dob, err := parseDate(strings.TrimSpace(b.DateOfBirth.Value))
		switch {
		case err != nil:
			details = append(details, "Date of birth must be a valid date")
		case dob.After(time.Now()):
			details = append(details, "Date of birth cannot be in the future")
		default:
			b.dob = &dob
		}
	}
	return details
}

func (b *personBody) input() services.PersonInput {
	return services.PersonInput{
		FirstName:   strings.TrimSpace(b.FirstName.OrZero()),
		LastName:    strings.TrimSpace(b.LastName.OrZero()),
		Description: strings.TrimSpace(b.Description.OrZero()),
		DateOfBirth: b.dob,
		Websites:    b.Websites.OrZero(),
		Images:      b.Images.OrZero(),
		Place:       b.Place.OrZero(),
	}
}

func (b *personBody) patch() services.PersonPatch {
	p := services.PersonPatch{
		FirstName:   trimmed(b.FirstName.Ptr()),
		LastName:    trimmed(clearable(b.LastName)),
		Description: trimmed(clearable(b.Description)),
		Websites:    listPatch(b.Websites),
		Images:      listPatch(b.Images),
		Place:       clearable(b.Place),
	}
	if b.DateOfBirth.Set {
		if b.dob != nil {
			p.DateOfBirth = b.dob
		} else {
			p.ClearDateOfBirth = true
		}
	}
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (h *Handler) listPersons(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	filter := graph.PersonFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Place:  strings.TrimSpace(c.Query("place")),
	}
	page, err := h.svc.Persons.List(c.Request.Context(), filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) createPerson(c *gin.Context) {
	body := personBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	person, err := h.svc.Persons.Create(c.Request.Context(), body.input())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, person, "Person")
}

func (h *Handler) getPerson(c *gin.Context) {
	person, err := h.svc.Persons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, person)
}

func (h *Handler) updatePerson(c *gin.Context) {
	var body personBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	person, err := h.svc.Persons.Update(c.Request.Context(), c.Param("id"), body.patch())
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, person, "Person")
}

func (h *Handler) deletePerson(c *gin.Context) {
	if err := h.svc.Persons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Person")
}

func (h *Handler) personRelationships(c *gin.Context) {
	h.nodeRelationships(c, graph.KindPerson)
}

func (h *Handler) nodeRelationships(c *gin.Context, kind graph.NodeKind) {
	rels, err := h.svc.Relationships.ListByNode(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rels)
}
