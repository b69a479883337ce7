package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var magnetsBucket = []byte("magnets")

// BoltDB is the bbolt-backed magnet store. Magnets are keyed by the debrid
// torrent id and serialized as JSON.
type BoltDB struct {
	db *bolt.DB
}

func New(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", "stremita.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(magnetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create magnets bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) Close() error {
	return b.db.Close()
}

func (b *BoltDB) StoreMagnet(magnet *Magnet) error {
	if magnet.AddedAt.IsZero() {
		magnet.AddedAt = time.Now()
	}

	data, err := json.Marshal(magnet)
	if err != nil {
		return fmt.Errorf("failed to encode magnet: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(magnetsBucket).Put([]byte(magnet.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store magnet: %w", err)
	}
	return nil
}

// RecordMagnet satisfies the pipeline's MagnetRecorder contract.
func (b *BoltDB) RecordMagnet(torrentID, infoHash, title string) error {
	return b.StoreMagnet(&Magnet{ID: torrentID, Hash: infoHash, Name: title})
}

func (b *BoltDB) GetMagnets() ([]Magnet, error) {
	var magnets []Magnet
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(magnetsBucket).ForEach(func(_, value []byte) error {
			var magnet Magnet
			if err := json.Unmarshal(value, &magnet); err != nil {
				return fmt.Errorf("failed to decode magnet: %w", err)
			}
			magnets = append(magnets, magnet)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return magnets, nil
}

func (b *BoltDB) DeleteMagnet(id string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(magnetsBucket).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete magnet: %w", err)
	}
	return nil
}

// CleanupOldRecords removes magnets older than maxAge and returns the
// removed records so the caller can delete them remotely as well.
func (b *BoltDB) CleanupOldRecords(maxAge time.Duration) ([]Magnet, error) {
	cutoff := time.Now().Add(-maxAge)

	var removed []Magnet
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(magnetsBucket)
		cursor := bucket.Cursor()
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			var magnet Magnet
			if err := json.Unmarshal(value, &magnet); err != nil {
				continue
			}
			if magnet.AddedAt.After(cutoff) {
				continue
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
			removed = append(removed, magnet)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cleanup magnets: %w", err)
	}
	return removed, nil
}
