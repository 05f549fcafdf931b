package api

import (
	"strings"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type relationshipBody struct {
	From                Field[string] `json:"from" binding:"omitempty,objectid"`
	To                  Field[string] `json:"to" binding:"omitempty,objectid"`
	FromModel           Field[string] `json:"fromModel" binding:"omitempty,nodekind"`
	ToModel             Field[string] `json:"toModel" binding:"omitempty,nodekind"`
	Relationship        Field[string] `json:"relationship" binding:"omitempty,objectid"`
	ReverseRelationship Field[string] `json:"reverseRelationship" binding:"omitempty,objectid"`

	create bool
}

func (b *relationshipBody) validate() []string {
	var details []string
	details = required(details, b.create, "from", b.From)
	details = required(details, b.create, "to", b.To)
	details = required(details, b.create, "fromModel", b.FromModel)
	details = required(details, b.create, "toModel", b.ToModel)
	details = required(details, b.create, "relationship", b.Relationship)
	return required(details, b.create, "reverseRelationship", b.ReverseRelationship)
}

func (h *Handler) listRelationships(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	filter := graph.RelationshipFilter{
		From:         strings.TrimSpace(c.Query("from")),
		To:           strings.TrimSpace(c.Query("to")),
		FromModel:    graph.NodeKind(strings.TrimSpace(c.Query("fromModel"))),
		ToModel:      graph.NodeKind(strings.TrimSpace(c.Query("toModel"))),
		Relationship: strings.TrimSpace(c.Query("relationship")),
	}
	page, err := h.svc.Relationships.List(c.Request.Context(), filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) createRelationship(c *gin.Context) {
	body := relationshipBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	rel, err := h.svc.Relationships.Create(c.Request.Context(), services.RelationshipInput{
		From:                body.From.Value,
		To:                  body.To.Value,
		FromModel:           body.FromModel.Value,
		ToModel:             body.ToModel.Value,
		Relationship:        body.Relationship.Value,
		ReverseRelationship: body.ReverseRelationship.Value,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, rel, "Relationship")
}

func (h *Handler) getRelationship(c *gin.Context) {
	rel, err := h.svc.Relationships.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rel)
}

func (h *Handler) updateRelationship(c *gin.Context) {
	var body relationshipBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	rel, err := h.svc.Relationships.Update(c.Request.Context(), c.Param("id"), services.RelationshipPatch{
		From:                body.From.Ptr(),
		To:                  body.To.Ptr(),
		FromModel:           body.FromModel.Ptr(),
		ToModel:             body.ToModel.Ptr(),
		Relationship:        body.Relationship.Ptr(),
		ReverseRelationship: body.ReverseRelationship.Ptr(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, rel, "Relationship")
}

func (h *Handler) deleteRelationship(c *gin.Context) {
	if err := h.svc.Relationships.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Relationship")
}
