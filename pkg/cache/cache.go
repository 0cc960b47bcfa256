// Package cache stores rendered diagram output between builds.
//
// Rendering a diagram means spawning an external program, which dominates
// build time for documents with many diagrams. Output is keyed by a hash of
// everything that influences it (see [RenderKey]) so an unchanged diagram is
// never rendered twice.
//
// Backends:
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for CI runners and preview servers
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered output stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiry. Implementations must be safe for
// concurrent use: the site builder renders pages in parallel.
type Cache interface {
	// Get returns the value and true on a hit, nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts lists every input that changes a renderer's output.
type RenderKeyOpts struct {
	Engine  string   `json:"engine"`
	Program []string `json:"program"`
	Shell   bool     `json:"shell"`
	Cwd     string   `json:"cwd"`
	Format  string   `json:"format"`
	// Depends hashes the contents of the directive's depends file.
	Depends string `json:"depends,omitempty"`
}

// RenderKey generates the cache key for one rendered diagram.
func RenderKey(code string, opts RenderKeyOpts) string {
	return hashKey("render", opts, code)
}
