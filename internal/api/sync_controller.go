package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/sync"
)

// SyncController handles sync and collection browsing endpoints
type SyncController struct {
	orchestrator *sync.Orchestrator
	client       *firestore.Client
	tracer       trace.Tracer
}

// NewSyncController creates a new sync controller
func NewSyncController(orchestrator *sync.Orchestrator, client *firestore.Client) *SyncController {
	return &SyncController{
		orchestrator: orchestrator,
		client:       client,
		tracer:       otel.Tracer("sync-controller"),
	}
}

// RegisterRoutes registers sync routes with the gin router
func (sc *SyncController) RegisterRoutes(router *gin.RouterGroup) {
	syncRoutes := router.Group("/sync")
	{
		syncRoutes.POST("/runs", sc.SyncAll)
		syncRoutes.POST("/collections/:collection", sc.SyncCollection)
		syncRoutes.GET("/collections", sc.ListSyncableCollections)
		syncRoutes.GET("/status", sc.GetSyncStatus)
	}

	collectionRoutes := router.Group("/collections")
	{
		collectionRoutes.GET("", sc.ListCollections)
		collectionRoutes.GET("/:collection/documents", sc.ListDocuments)
		collectionRoutes.GET("/:collection/documents/:id", sc.GetDocument)
	}

	router.DELETE("/cache", sc.InvalidateCache)
}

// SyncAll runs a full sync over every discovered remote collection
// @Summary Run a full sync
// @Description Discovers remote collections and syncs each into the relational store
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]sync.Stats
// @Router /api/v1/sync/runs [post]
func (sc *SyncController) SyncAll(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.sync_all")
	defer span.End()

	results := sc.orchestrator.SyncAll(ctx)

	span.SetAttributes(attribute.Int("collections_count", len(results)))
	c.JSON(http.StatusOK, results)
}

// SyncCollection syncs a single remote collection by name
// @Summary Sync one collection
// @Description Syncs the named remote collection into the relational store
// @Tags sync
// @Produce json
// @Param collection path string true "Collection name"
// @Success 200 {object} sync.Stats
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sync/collections/{collection} [post]
func (sc *SyncController) SyncCollection(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.sync_collection")
	defer span.End()

	name := c.Param("collection")
	span.SetAttributes(attribute.String("collection", name))

	stats := sc.orchestrator.SyncCollection(ctx, name)
	if stats.Error != "" {
		span.SetAttributes(attribute.String("sync.error", stats.Error))
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "UNKNOWN_COLLECTION",
			Details: stats.Error,
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListSyncableCollections returns the collection names the engine can sync
// @Summary List syncable collections
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/sync/collections [get]
func (sc *SyncController) ListSyncableCollections(c *gin.Context) {
	_, span := sc.tracer.Start(c.Request.Context(), "sync_controller.list_syncable_collections")
	defer span.End()

	names := sc.orchestrator.Collections()
	c.JSON(http.StatusOK, gin.H{
		"collections": names,
		"count":       len(names),
	})
}

// GetSyncStatus reports remote connectivity
// @Summary Get sync system status
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/sync/status [get]
func (sc *SyncController) GetSyncStatus(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.get_sync_status")
	defer span.End()

	available := sc.client.Available()
	span.SetAttributes(attribute.Bool("firestore.available", available))

	c.JSON(http.StatusOK, gin.H{
		"firestore_available": available,
		"cache":               sc.client.CacheStats(ctx),
	})
}

// ListCollections lists the remote collections
// @Summary List remote collections
// @Description Returns remote collection names, served from cache when fresh
// @Tags collections
// @Produce json
// @Param cached query bool false "Serve from cache when fresh" default(true)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/collections [get]
func (sc *SyncController) ListCollections(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.list_collections")
	defer span.End()

	useCache := c.DefaultQuery("cached", "true") != "false"
	collections := sc.client.ListCollections(ctx, useCache)

	span.SetAttributes(attribute.Int("collections_count", len(collections)))
	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"count":       len(collections),
	})
}

// ListDocuments lists documents from one remote collection
// @Summary List collection documents
// @Tags collections
// @Produce json
// @Param collection path string true "Collection name"
// @Param cached query bool false "Serve from cache when fresh" default(true)
// @Param limit query int false "Maximum number of documents"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/collections/{collection}/documents [get]
func (sc *SyncController) ListDocuments(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.list_documents")
	defer span.End()

	name := c.Param("collection")
	useCache := c.DefaultQuery("cached", "true") != "false"

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			span.SetAttributes(attribute.String("invalid_limit", raw))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "INVALID_LIMIT",
				Details: fmt.Sprintf("limit must be a non-negative integer, got %q", raw),
			})
			return
		}
		limit = parsed
	}

	span.SetAttributes(
		attribute.String("collection", name),
		attribute.Int("limit", limit),
	)

	docs := sc.client.ListDocuments(ctx, name, useCache, limit)
	c.JSON(http.StatusOK, gin.H{
		"collection": name,
		"documents":  docs,
		"count":      len(docs),
	})
}

// GetDocument fetches a single remote document
// @Summary Get one document
// @Tags collections
// @Produce json
// @Param collection path string true "Collection name"
// @Param id path string true "Document ID"
// @Success 200 {object} firestore.Document
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/collections/{collection}/documents/{id} [get]
func (sc *SyncController) GetDocument(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.get_document")
	defer span.End()

	name := c.Param("collection")
	id := c.Param("id")
	span.SetAttributes(
		attribute.String("collection", name),
		attribute.String("document_id", id),
	)

	doc, ok := sc.client.GetDocument(ctx, name, id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "DOCUMENT_NOT_FOUND",
			Details: fmt.Sprintf("no document %s in collection %s", id, name),
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// InvalidateCache drops cached reads, for one collection or all of them
// @Summary Invalidate read cache
// @Tags collections
// @Produce json
// @Param collection query string false "Collection to invalidate; empties the whole cache when omitted"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/cache [delete]
func (sc *SyncController) InvalidateCache(c *gin.Context) {
	ctx, span := sc.tracer.Start(c.Request.Context(), "sync_controller.invalidate_cache")
	defer span.End()

	collection := c.Query("collection")
	span.SetAttributes(attribute.String("collection", collection))

	sc.client.InvalidateCache(ctx, collection)

	message := "cache cleared"
	if collection != "" {
		message = fmt.Sprintf("cache invalidated for collection %s", collection)
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}
