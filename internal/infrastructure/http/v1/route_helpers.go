// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// MetadataRouteHandler serves grid metadata.
type MetadataRouteHandler interface {
	Technologies(c *gin.Context)
	Columns(c *gin.Context)
	Refresh(c *gin.Context)
}

// RowsRouteHandler serves row windows.
type RowsRouteHandler interface {
	Rows(c *gin.Context)
}

// RegisterGridRoutes registers the grid endpoints on group.
//
// Usage:
//
//	base := handlers.NewBaseHandler(technologies)
//	RegisterGridRoutes(v1.Group("/grid"), handlers.NewMetadataHandler(base, cache, row), handlers.NewGridHandler(base, factory))
func RegisterGridRoutes(group *gin.RouterGroup, meta MetadataRouteHandler, rows RowsRouteHandler) {
	group.GET("/technologies", meta.Technologies)
	group.GET("/columns", meta.Columns)
	group.POST("/columns/refresh", meta.Refresh)
	group.POST("/rows", rows.Rows)
}
