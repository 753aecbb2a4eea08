// Package cache provides pluggable caching for pipeline stages.
//
// The Cache interface abstracts the storage backend: FileCache for CLI
// usage, RedisCache for server deployments, NullCache to disable caching.
// The Keyer interface derives stable cache keys from stage inputs so that
// any change to the input or the options produces a distinct key.
package cache

import (
	"context"
	"time"
)

// TTL constants for the pipeline stages.
const (
	// TTLGraph is how long derived graphs stay cached. Graphs are keyed by
	// the content hash of the input table, so staleness only matters for
	// disk usage, not correctness.
	TTLGraph = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage backend interface.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts are the build inputs that affect the derived graph beyond
// the table content itself.
type GraphKeyOpts struct {
	Groups []string `json:"groups,omitempty"`
}

// ArtifactKeyOpts are the render inputs that affect an artifact beyond the
// graph it renders.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Title    string `json:"title,omitempty"`
	Height   string `json:"height,omitempty"`
	Directed bool   `json:"directed,omitempty"`
	Engine   string `json:"engine,omitempty"`
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// GraphKey generates a key for a derived graph. tableHash is the
	// content hash of the ingested table.
	GraphKey(tableHash string, opts GraphKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact. graphHash is
	// the content hash of the serialized graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator. Keys are namespaced by stage
// and derived from a hash of all inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a derived graph.
func (k *DefaultKeyer) GraphKey(tableHash string, opts GraphKeyOpts) string {
	return hashKey("graph", tableHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
