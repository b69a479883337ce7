// Package services provides the dependency injection container for the
// application services.
package services

import (
	"github.com/stremita/stremita/internal/cache"
	"github.com/stremita/stremita/internal/config"
	"github.com/stremita/stremita/internal/database"
	"github.com/stremita/stremita/internal/metadata"
	"github.com/stremita/stremita/internal/pipeline"
	"github.com/stremita/stremita/internal/providers"
	"github.com/stremita/stremita/internal/realdebrid"
	"github.com/stremita/stremita/pkg/logger"
)

// Container holds all application services.
type Container struct {
	Config   *config.Config
	Cache    *cache.LRUCache
	DB       database.Database
	Metadata *metadata.Service
	Pipeline *pipeline.Pipeline
	Cleanup  *CleanupService
	Logger   logger.Logger
}

// New wires the default production services together.
func New(cfg *config.Config, db database.Database) *Container {
	lruCache := cache.New(cfg.CacheSize)

	searchProviders := []providers.Provider{
		providers.NewCorsaro(),
		providers.NewUIndex(),
		providers.NewKnaben(),
		providers.NewX1337(),
	}

	var recorder pipeline.MagnetRecorder
	if boltDB, ok := db.(*database.BoltDB); ok {
		recorder = boltDB
	}

	container := &Container{
		Config:   cfg,
		Cache:    lruCache,
		DB:       db,
		Metadata: metadata.NewService(lruCache),
		Pipeline: pipeline.New(searchProviders, recorder, cfg.CandidateBudget),
		Logger:   logger.New(),
	}

	var remote TorrentDeleter
	if cfg.DebridAPIKey != "" {
		remote = realdebrid.NewClient(cfg.DebridAPIKey)
	}
	container.Cleanup = NewCleanupService(db, remote)

	return container
}
