// Package cache wraps the Redis client used for cache-aside reads and rate
// limit counters. Everything here fails open when Redis is absent.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects to Redis at addr. A failed connection leaves the client
// nil and the application running without a cache.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		Client = nil
	} else {
		log.Println("Redis connected successfully")
	}
}

// GetClient returns the shared client, nil when Redis is unavailable.
func GetClient() *redis.Client {
	return Client
}

// Close shuts down the client if connected.
func Close() {
	if Client != nil {
		_ = Client.Close()
	}
}
