package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestor-labs/be-case-tracking/internal/logger"
)

// CatalogHandler serves the workflow reference data.
type CatalogHandler struct {
	catalog CatalogAPI
	log     *logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog CatalogAPI, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// ListStates handles GET /catalogs/states.
func (h *CatalogHandler) ListStates(c *gin.Context) {
	states, err := h.catalog.States(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

// ListCommentTemplates handles GET /catalogs/comment-templates.
func (h *CatalogHandler) ListCommentTemplates(c *gin.Context) {
	templates, err := h.catalog.Templates(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}
