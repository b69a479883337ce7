package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stremita/stremita/internal/models"
)

// The addon resolves streams, it does not curate catalogs. The catalog
// resource is still declared so older Stremio clients accept the manifest;
// it always answers with an empty list.
func (h *Handler) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, models.CatalogResponse{Metas: []models.Meta{}})
}
