// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"gridsearch/internal/core/apperror"
	"gridsearch/internal/domain/search"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	technologies []search.Technology
}

// NewBaseHandler creates a base handler accepting the given technologies.
// The first one is the default; none means a single backend without selector.
func NewBaseHandler(technologies []search.Technology) *BaseHandler {
	return &BaseHandler{technologies: technologies}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Technology resolves the ?technology= selector against the configured set.
func (h *BaseHandler) Technology(c *gin.Context) (search.Technology, bool) {
	raw := c.Query("technology")
	if raw == "" {
		return h.DefaultTechnology(), true
	}
	tech, err := search.ParseTechnology(raw)
	if err != nil || !slices.Contains(h.technologies, tech) {
		h.Error(c, apperror.NewValidation("unknown technology").
			WithDetail("technology", raw).
			WithDetail("allowed", h.technologies))
		return "", false
	}
	return tech, true
}

// DefaultTechnology is used when the request names none.
func (h *BaseHandler) DefaultTechnology() search.Technology {
	if len(h.technologies) == 0 {
		return search.TechnologyNone
	}
	return h.technologies[0]
}

// Technologies returns a copy of the accepted selectors.
func (h *BaseHandler) Technologies() []search.Technology {
	return slices.Clone(h.technologies)
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
