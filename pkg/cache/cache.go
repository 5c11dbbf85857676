// Package cache stores rendered dumps so that repeated runs over the same
// input skip the packet walk.
//
// A dump is a pure function of the input bytes and the options that shape its
// output, so keys are derived from a content hash of the input plus those
// options (see [Keyer]). Two implementations are provided: [FileCache] for the
// CLI and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLDump is how long a rendered dump stays valid. Dumps never go stale on
// their own; the TTL only bounds cache growth.
const TTLDump = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent or
	// expired; err is reserved for storage failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DumpKeyOpts holds every option that changes the rendered output.
type DumpKeyOpts struct {
	Format           string `json:"format"`
	DumpPackets      bool   `json:"dump_packets,omitempty"`
	DumpMPI          bool   `json:"dump_mpi,omitempty"`
	DumpGrips        bool   `json:"dump_grips,omitempty"`
	MaxLayers        int    `json:"max_layers,omitempty"`
	MaxErrors        int    `json:"max_errors,omitempty"`
	MaxStreamPackets int    `json:"max_stream_packets,omitempty"`
	PreviewBytes     int    `json:"preview_bytes,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DumpKey returns the key of the dump of the input with the given
	// content hash, rendered with opts.
	DumpKey(inputHash string, opts DumpKeyOpts) string
}

// DefaultKeyer produces keys of the form "dump:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DumpKey implements Keyer.
func (DefaultKeyer) DumpKey(inputHash string, opts DumpKeyOpts) string {
	return hashKey("dump", inputHash, opts)
}

// hashKey hashes the JSON encoding of parts under prefix.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
