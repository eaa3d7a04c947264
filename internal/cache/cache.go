// Package cache provides a Redis-backed lookup cache for the CMS and fleet
// tools. Catalog data changes rarely while the agent queries it on nearly
// every conversation turn, so hits save a round trip to the upstream APIs.
//
// Graceful fallback: if Redis is unavailable, reads miss and writes no-op
// instead of blocking the tool call.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes.
const (
	KeyCMS   = "cms:"   // CMS documents (trims, offers, terms)
	KeyFleet = "fleet:" // dealer backend fleet listing
)

// Config holds Redis connection settings.
type Config struct {
	URL      string // redis://host:port
	Password string
	DB       int
	TTL      time.Duration
}

// DefaultTTL applies when the config leaves TTL unset.
const DefaultTTL = 15 * time.Minute

var (
	client *redis.Client
	ttl    = DefaultTTL
	mu     sync.RWMutex
)

// Init connects to Redis. Returns true if connected; the cache stays
// disabled otherwise and every lookup goes upstream.
func Init(cfg Config) bool {
	if cfg.URL == "" {
		log.Println("[Cache] Redis URL not configured, caching disabled")
		return false
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("[Cache] invalid Redis URL: %v", err)
		return false
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.MaxRetries = 3

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] connection failed: %v", err)
		return false
	}

	mu.Lock()
	client = c
	if cfg.TTL > 0 {
		ttl = cfg.TTL
	}
	mu.Unlock()

	log.Println("[Cache] connected")
	return true
}

// Close shuts the connection down.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if client != nil {
		client.Close()
		client = nil
		log.Println("[Cache] connection closed")
	}
}

// IsAvailable reports whether the cache is usable.
func IsAvailable() bool {
	mu.RLock()
	defer mu.RUnlock()
	return client != nil
}

func get() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// GetJSON reads a cached JSON value into out. Returns false on miss,
// unavailability, or decode failure.
func GetJSON(ctx context.Context, key string, out any) bool {
	c := get()
	if c == nil {
		return false
	}
	raw, err := c.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Cache] get failed (%s): %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[Cache] parse failed (%s): %v", key, err)
		return false
	}
	return true
}

// SetJSON writes a JSON-serialized value with the configured TTL.
func SetJSON(ctx context.Context, key string, value any) {
	c := get()
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] marshal failed (%s): %v", key, err)
		return
	}
	mu.RLock()
	expiry := ttl
	mu.RUnlock()
	if err := c.Set(ctx, key, data, expiry).Err(); err != nil {
		log.Printf("[Cache] set failed (%s): %v", key, err)
	}
}

// CMSKey returns the cache key for a CMS document set.
func CMSKey(name string) string { return KeyCMS + name }

// FleetKey returns the cache key for a fleet listing.
func FleetKey(name string) string { return KeyFleet + name }
