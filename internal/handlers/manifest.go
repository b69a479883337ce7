package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/internal/models"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, h.createManifest())
}

func (h *Handler) createManifest() models.Manifest {
	// Single-user deployments carry process-level keys, so the client may
	// install the addon without configuring anything.
	configured := h.config != nil && h.config.TMDBAPIKey != "" && h.config.DebridAPIKey != ""

	prefixes := make([]string, 0, len(constants.IDPrefixes))
	prefixes = append(prefixes, constants.IDPrefixes...)

	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{"movie", "series"},
		Resources:   []string{"stream", "catalog"},
		Catalogs:    []models.Catalog{},
		BehaviorHints: models.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: !configured,
		},
		IDPrefixes: prefixes,
	}
}
