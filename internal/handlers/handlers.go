// Package handlers implements the HTTP surface of the Stremio addon.
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stremita/stremita/internal/config"
	"github.com/stremita/stremita/internal/services"
	"github.com/stremita/stremita/pkg/logger"
)

// Handler handles HTTP requests for the Stremio addon.
type Handler struct {
	services *services.Container
	config   *config.Config
	logger   logger.Logger
}

// New creates a Handler backed by the provided service container.
func New(container *services.Container, cfg *config.Config) *Handler {
	return &Handler{
		services: container,
		config:   cfg,
		logger:   logger.NewScoped("HTTP"),
	}
}

// RegisterRoutes registers all addon routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	r.GET("/configure", h.handleConfigure)
	r.GET("/:userConf/configure", h.handleConfigure)

	r.GET("/manifest.json", h.handleManifest)
	r.GET("/:userConf/manifest.json", h.handleManifest)

	r.GET("/:userConf/catalog/:type/:id", h.handleCatalogWrapper)

	r.GET("/:userConf/stream/:type/:id", h.handleStreamWrapper)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.Redirect(302, "/configure")
}

// Stremio clients request resources both with and without the .json
// extension depending on version.
func (h *Handler) handleCatalogWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleCatalog(c)
}

func (h *Handler) handleStreamWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleStream(c)
}

func stripJSONExtension(c *gin.Context, paramName string) {
	value := c.Param(paramName)
	if !strings.HasSuffix(value, ".json") {
		return
	}
	for i, param := range c.Params {
		if param.Key == paramName {
			c.Params[i].Value = strings.TrimSuffix(value, ".json")
			break
		}
	}
}
