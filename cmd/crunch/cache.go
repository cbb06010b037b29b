package main

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/tdewolff/crunch"
	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("crunch")

// Cache stores crunched output keyed by a hash of the input and the settings. A nil Cache never hits.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens or creates the cache file.
func OpenCache(filename string) (*Cache, error) {
	db, err := bolt.Open(filename, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %q: %w", filename, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open cache %q: %w", filename, err)
	}
	return &Cache{db}, nil
}

// Close closes the cache file.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the output stored for key. A failed read is logged and counts as a miss.
func (c *Cache) Get(key []byte) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	var b []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(cacheBucket)
		if bucket == nil {
			return bolt.ErrBucketNotFound
		}
		if v := bucket.Get(key); v != nil {
			// v is only valid during the transaction
			b = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		Warning.Println("cache read:", err)
		return nil, false
	}
	return b, b != nil
}

// Put stores the output for key.
func (c *Cache) Put(key, b []byte) error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(key, b)
	})
}

func cacheKey(src []byte, settings *crunch.Settings) []byte {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte{0})
	h.Write([]byte(settings.String()))
	h.Write([]byte{0})
	h.Write(src)
	return h.Sum(nil)
}
