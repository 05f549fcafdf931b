package api

import (
	"strings"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type entityBody struct {
	Type        Field[string]   `json:"type" binding:"omitempty,objectid"`
	Name        Field[string]   `json:"name" binding:"omitempty,max=100"`
	Description Field[string]   `json:"description" binding:"omitempty,max=1000"`
	Websites    Field[[]string] `json:"websites" binding:"omitempty,dive,weburl"`
	Images      Field[[]string] `json:"images" binding:"omitempty,dive,weburl"`
	Place       Field[string]   `json:"place" binding:"omitempty,objectid"`

	create bool
}

func (b *entityBody) validate() []string {
	details := required(nil, b.create, "name", b.Name)
	return required(details, b.create, "type", b.Type)
}

func (b *entityBody) input() services.EntityInput {
	return services.EntityInput{
		Type:        b.Type.OrZero(),
		Name:        strings.TrimSpace(b.Name.OrZero()),
		Description: strings.TrimSpace(b.Description.OrZero()),
		Websites:    b.Websites.OrZero(),
		Images:      b.Images.OrZero(),
		Place:       b.Place.OrZero(),
	}
}

func (b *entityBody) patch() services.EntityPatch {
	return services.EntityPatch{
		Type:        b.Type.Ptr(),
		Name:        trimmed(b.Name.Ptr()),
		Description: trimmed(clearable(b.Description)),
		Websites:    listPatch(b.Websites),
		Images:      listPatch(b.Images),
		Place:       clearable(b.Place),
	}
}

func (h *Handler) listEntities(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	filter := graph.EntityFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Type:   strings.TrimSpace(c.Query("type")),
		Place:  strings.TrimSpace(c.Query("place")),
	}
	page, err := h.svc.Entities.List(c.Request.Context(), filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) createEntity(c *gin.Context) {
	body := entityBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	entity, err := h.svc.Entities.Create(c.Request.Context(), body.input())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, entity, "Entity")
}

func (h *Handler) getEntity(c *gin.Context) {
	entity, err := h.svc.Entities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, entity)
}

func (h *Handler) updateEntity(c *gin.Context) {
	var body entityBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	entity, err := h.svc.Entities.Update(c.Request.Context(), c.Param("id"), body.patch())
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, entity, "Entity")
}

func (h *Handler) deleteEntity(c *gin.Context) {
	if err := h.svc.Entities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Entity")
}

func (h *Handler) entityRelationships(c *gin.Context) {
	h.nodeRelationships(c, graph.KindEntity)
}
