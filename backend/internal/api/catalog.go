package api

import (
	"strings"

	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// Entity types
// ============================================================================

type entityTypeBody struct {
	Name        Field[string] `json:"name" binding:"omitempty,max=50"`
	Description Field[string] `json:"description" binding:"omitempty,max=200"`

	create bool
}

func (b *entityTypeBody) validate() []string {
	return required(nil, b.create, "name", b.Name)
}

func (h *Handler) listEntityTypes(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.EntityTypes.List(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) allEntityTypes(c *gin.Context) {
	types, err := h.svc.EntityTypes.All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, types)
}

func (h *Handler) createEntityType(c *gin.Context) {
	body := entityTypeBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	et, err := h.svc.EntityTypes.Create(c.Request.Context(), services.EntityTypeInput{
		Name:        strings.TrimSpace(body.Name.OrZero()),
		Description: strings.TrimSpace(body.Description.OrZero()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, et, "Entity type")
}

func (h *Handler) getEntityType(c *gin.Context) {
	et, err := h.svc.EntityTypes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, et)
}

func (h *Handler) updateEntityType(c *gin.Context) {
	var body entityTypeBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	et, err := h.svc.EntityTypes.Update(c.Request.Context(), c.Param("id"), services.EntityTypePatch{
		Name:        trimmed(body.Name.Ptr()),
		Description: trimmed(clearable(body.Description)),
	})
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, et, "Entity type")
}

func (h *Handler) deleteEntityType(c *gin.Context) {
	if err := h.svc.EntityTypes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Entity type")
}

// entityTypeEntities lists the entities of one type
func (h *Handler) entityTypeEntities(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.Entities.ListByType(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

// ============================================================================
// Relationship types
// ============================================================================

type relationshipTypeBody struct {
	Name Field[string] `json:"name" binding:"omitempty,max=50"`

	create bool
}

func (b *relationshipTypeBody) validate() []string {
	return required(nil, b.create, "name", b.Name)
}

func (h *Handler) listRelationshipTypes(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.RelationshipTypes.List(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) allRelationshipTypes(c *gin.Context) {
	types, err := h.svc.RelationshipTypes.All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, types)
}

func (h *Handler) createRelationshipType(c *gin.Context) {
	body := relationshipTypeBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	rt, err := h.svc.RelationshipTypes.Create(c.Request.Context(), services.RelationshipTypeInput{
		Name: strings.TrimSpace(body.Name.OrZero()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rt, "Relationship type")
}

func (h *Handler) getRelationshipType(c *gin.Context) {
	rt, err := h.svc.RelationshipTypes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rt)
}

func (h *Handler) updateRelationshipType(c *gin.Context) {
	var body relationshipTypeBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	rt, err := h.svc.RelationshipTypes.Update(c.Request.Context(), c.Param("id"), services.RelationshipTypePatch{
		Name: trimmed(body.Name.Ptr()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, rt, "Relationship type")
}

func (h *Handler) deleteRelationshipType(c *gin.Context) {
	if err := h.svc.RelationshipTypes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Relationship type")
}
