// Package cache provides the in-memory oracle response cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching oracle responses.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the provider, model and full prompt of an
// oracle call.
func Key(provider, model, prompt string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + prompt))
	return "lossrun:v1:" + hex.EncodeToString(hash[:])
}
