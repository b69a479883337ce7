// Package database persists the magnets submitted to the debrid service so
// the cleanup job can delete stale ones from the remote account.
package database

import "time"

// Database abstracts the magnet store.
type Database interface {
	Close() error
	StoreMagnet(magnet *Magnet) error
	GetMagnets() ([]Magnet, error)
	DeleteMagnet(id string) error
	CleanupOldRecords(maxAge time.Duration) ([]Magnet, error)
}

// Magnet records one torrent submitted to the debrid account.
type Magnet struct {
	ID      string    `json:"id"`
	Hash    string    `json:"hash"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}
