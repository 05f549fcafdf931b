// Package api exposes the services over HTTP/JSON with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"link-graph/backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the router settings
type Config struct {
	CORSOrigin   string
	AuthRequired bool
	Production   bool
	Backend      string
}

// Handler serves every route
type Handler struct {
	svc    *services.Services
	store  Pinger
	logger *zap.Logger
	cfg    Config
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(svc *services.Services, store Pinger, log *zap.Logger, cfg Config) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	registerValidations()

	h := &Handler{svc: svc, store: store, logger: log, cfg: cfg}

	router := gin.New()
	router.Use(requestID(log))
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors(cfg.CORSOrigin))

	router.GET("/health", h.health)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Error: "Route " + c.Request.URL.Path + " not found"})
	})

	api := router.Group("/api")
	if cfg.AuthRequired {
		api.Use(guardWrites(svc.Auth))
	}
	{
		// Persons
		api.GET("/persons", h.listPersons)
		api.POST("/person", h.createPerson)
		api.GET("/person/:id", h.getPerson)
		api.PUT("/person/:id", h.updatePerson)
		api.DELETE("/person/:id", h.deletePerson)
		api.GET("/person/:id/relationships", h.personRelationships)

		// Entities
		api.GET("/entities", h.listEntities)
		api.POST("/entity", h.createEntity)
		api.GET("/entity/:id", h.getEntity)
		api.PUT("/entity/:id", h.updateEntity)
		api.DELETE("/entity/:id", h.deleteEntity)
		api.GET("/entity/:id/relationships", h.entityRelationships)

		// Places
		api.GET("/places", h.listPlaces)
		api.POST("/place", h.createPlace)
		api.GET("/place/:id", h.getPlace)
		api.PUT("/place/:id", h.updatePlace)
		api.DELETE("/place/:id", h.deletePlace)
		api.GET("/place/:id/sub-places", h.listSubPlaces)
		api.GET("/place/:id/persons", h.placePersons)
		api.GET("/place/:id/entities", h.placeEntities)

		// Entity types
		api.GET("/entity-types", h.listEntityTypes)
		api.GET("/entity-types/all", h.allEntityTypes)
		api.POST("/entity-types", h.createEntityType)
		api.GET("/entity-types/:id", h.getEntityType)
		api.PUT("/entity-types/:id", h.updateEntityType)
		api.DELETE("/entity-types/:id", h.deleteEntityType)
		api.GET("/entity-types/:id/entities", h.entityTypeEntities)

		// Relationship types
		api.GET("/relationship-types", h.listRelationshipTypes)
		api.GET("/relationship-types/all", h.allRelationshipTypes)
		api.POST("/relationship-types", h.createRelationshipType)
		api.GET("/relationship-types/:id", h.getRelationshipType)
		api.PUT("/relationship-types/:id", h.updateRelationshipType)
		api.DELETE("/relationship-types/:id", h.deleteRelationshipType)

		// Relationships
		api.GET("/relationships", h.listRelationships)
		api.POST("/relationship", h.createRelationship)
		api.GET("/relationship/:id", h.getRelationship)
		api.PUT("/relationship/:id", h.updateRelationship)
		api.DELETE("/relationship/:id", h.deleteRelationship)

		// Search
		api.GET("/search", h.globalSearch)
		api.GET("/search/filter", h.filteredSearch)
	}

	auth := router.Group("/api/auth")
	{
		auth.GET("/profile", authenticate(svc.Auth), h.profile)
		auth.POST("/verify-token", h.verifyToken)
	}

	return router
}

// health reports liveness and whether the store answers a ping
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{
		"status":    "ok",
		"backend":   h.cfg.Backend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Store ping failed", zap.Error(err))
		body["status"] = "degraded"
		body["store"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["store"] = "ok"
	c.JSON(http.StatusOK, body)
}
