package api

import (
	"strings"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type placeBody struct {
	Name        Field[string]   `json:"name" binding:"omitempty,max=100"`
	Description Field[string]   `json:"description" binding:"omitempty,max=1000"`
	Images      Field[[]string] `json:"images" binding:"omitempty,dive,weburl"`
	Region      Field[string]   `json:"region" binding:"omitempty,objectid"`

	create bool
}

func (b *placeBody) validate() []string {
	return required(nil, b.create, "name", b.Name)
}

func (b *placeBody) input() services.PlaceInput {
	return services.PlaceInput{
		Name:        strings.TrimSpace(b.Name.OrZero()),
		Description: strings.TrimSpace(b.Description.OrZero()),
		Images:      b.Images.OrZero(),
		Region:      b.Region.OrZero(),
	}
}

func (b *placeBody) patch() services.PlacePatch {
	return services.PlacePatch{
		Name:        trimmed(b.Name.Ptr()),
		Description: trimmed(clearable(b.Description)),
		Images:      listPatch(b.Images),
		Region:      clearable(b.Region),
	}
}

func (h *Handler) listPlaces(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	filter := graph.PlaceFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Region: strings.TrimSpace(c.Query("region")),
	}
	page, err := h.svc.Places.List(c.Request.Context(), filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) createPlace(c *gin.Context) {
	body := placeBody{create: true}
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	place, err := h.svc.Places.Create(c.Request.Context(), body.input())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, place, "Place")
}

func (h *Handler) getPlace(c *gin.Context) {
	place, err := h.svc.Places.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, place)
}

func (h *Handler) updatePlace(c *gin.Context) {
	var body placeBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	place, err := h.svc.Places.Update(c.Request.Context(), c.Param("id"), body.patch())
	if err != nil {
		fail(c, err)
		return
	}
	updated(c, place, "Place")
}

func (h *Handler) deletePlace(c *gin.Context) {
	if err := h.svc.Places.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c, "Place")
}

func (h *Handler) listSubPlaces(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.Places.ListSubPlaces(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) placePersons(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.Places.ListPersons(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}

func (h *Handler) placeEntities(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.Places.ListEntities(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		fail(c, err)
		return
	}
	paged(c, page)
}
