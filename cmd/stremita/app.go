package main

import (
	"github.com/gin-gonic/gin"

	"github.com/stremita/stremita/internal/config"
	"github.com/stremita/stremita/internal/handlers"
	"github.com/stremita/stremita/internal/middleware"
	"github.com/stremita/stremita/internal/services"
)

func buildRouter(container *services.Container, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(container.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())

	handlers.New(container, cfg).RegisterRoutes(r)
	return r
}
