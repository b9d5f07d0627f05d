package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/http/v1/dto"
	"gridsearch/internal/metadata"
	"gridsearch/pkg/logger"
)

// DescriptorSource serves field descriptors per technology and drops them on request.
type DescriptorSource interface {
	Get(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error)
	Invalidate(tech search.Technology)
	Purge() []search.Technology
}

// MetadataHandler exposes what a grid needs to build its columns.
type MetadataHandler struct {
	*BaseHandler
	descriptors DescriptorSource
	row         metadata.RowDef
}

func NewMetadataHandler(base *BaseHandler, descriptors DescriptorSource, row metadata.RowDef) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		descriptors: descriptors,
		row:         row,
	}
}

// Technologies lists the selectable backends.
// GET /api/v1/grid/technologies
func (h *MetadataHandler) Technologies(c *gin.Context) {
	h.OK(c, dto.TechnologiesResponse{
		Technologies: h.BaseHandler.Technologies(),
		Default:      h.DefaultTechnology(),
	})
}

// Columns returns field descriptors and one column per row field.
// GET /api/v1/grid/columns?technology=
func (h *MetadataHandler) Columns(c *gin.Context) {
	tech, ok := h.Technology(c)
	if !ok {
		return
	}
	h.columns(c, tech)
}

// Refresh drops cached descriptors so they are fetched again. With all=true every
// technology is dropped; otherwise the selected one is reloaded and its columns returned.
// POST /api/v1/grid/columns/refresh?technology=&all=
func (h *MetadataHandler) Refresh(c *gin.Context) {
	if c.Query("all") == "true" {
		purged := h.descriptors.Purge()
		logger.Info(c.Request.Context(), "descriptor cache purged", "technologies", purged)
		h.OK(c, dto.RefreshResponse{Invalidated: purged})
		return
	}

	tech, ok := h.Technology(c)
	if !ok {
		return
	}
	h.descriptors.Invalidate(tech)
	logger.Info(c.Request.Context(), "descriptors invalidated", "technology", tech)
	h.columns(c, tech)
}

func (h *MetadataHandler) columns(c *gin.Context, tech search.Technology) {
	descs, err := h.descriptors.Get(c.Request.Context(), tech)
	if err != nil {
		h.Error(c, err)
		return
	}

	if unknown := h.row.Unknown(descs); len(unknown) > 0 {
		logger.Warn(c.Request.Context(), "descriptors name no row field",
			"technology", tech, "row", h.row.Name, "keys", unknown)
	}

	h.OK(c, dto.ColumnsResponse{
		Technology:  tech,
		Descriptors: descs,
		Fields:      h.row.Fields,
		Columns:     grid.ColumnsForRow(h.row.Keys(), descs),
	})
}
