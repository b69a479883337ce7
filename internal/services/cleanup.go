package services

import (
	"context"
	"sync"
	"time"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/internal/database"
	"github.com/stremita/stremita/pkg/logger"
)

// TorrentDeleter removes a torrent from the debrid account. Nil when no
// process-level debrid key is configured; cleanup then only trims the
// local store.
type TorrentDeleter interface {
	DeleteTorrent(ctx context.Context, torrentID string) error
}

// CleanupService periodically deletes stale magnets, locally and from the
// debrid account. Submitted torrents accumulate there otherwise and count
// against account quotas.
type CleanupService struct {
	db        database.Database
	remote    TorrentDeleter
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

func NewCleanupService(db database.Database, remote TorrentDeleter) *CleanupService {
	return &CleanupService{
		db:        db,
		remote:    remote,
		logger:    logger.NewScoped("Cleanup"),
		interval:  constants.CleanupInterval,
		retention: constants.MagnetRetention,
		stopChan:  make(chan struct{}),
	}
}

// SetRetentionPeriod overrides how long magnets are kept.
func (c *CleanupService) SetRetentionPeriod(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retention = d
}

// SetInterval overrides how often cleanup runs.
func (c *CleanupService) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
}

// Start runs an initial cleanup and begins the periodic loop.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	interval := c.interval
	c.mu.Unlock()

	c.logger.Infof("starting with interval %v, retention %v", interval, c.retention)
	c.CleanupNow(ctx)
	go c.loop(ctx, interval)
}

func (c *CleanupService) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stopChan)
}

func (c *CleanupService) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.CleanupNow(ctx)
		}
	}
}

// CleanupNow removes stale magnets immediately.
func (c *CleanupService) CleanupNow(ctx context.Context) {
	c.mu.Lock()
	retention := c.retention
	c.mu.Unlock()

	removed, err := c.db.CleanupOldRecords(retention)
	if err != nil {
		c.logger.Errorf("failed to trim magnet store: %v", err)
		return
	}
	if len(removed) == 0 {
		return
	}

	if c.remote != nil {
		for _, magnet := range removed {
			if err := c.remote.DeleteTorrent(ctx, magnet.ID); err != nil {
				c.logger.Warnf("failed to delete torrent %s remotely: %v", magnet.ID, err)
			}
			// Keep remote deletions gentle; the debrid API rate limits.
			select {
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
	}

	c.logger.Infof("removed %d stale magnets", len(removed))
}
