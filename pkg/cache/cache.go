package cache

import (
	"context"
	"time"
)

// Cache stores serialized artifacts by key. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// TTLDocument is how long a generated document stays cached. Output is a
// pure function of the key, so the TTL only bounds disk usage.
const TTLDocument = 7 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey returns the key of the document generated from an input
	// with the given content hash and options.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string
}

// DocumentKeyOpts lists every option that affects generated output.
type DocumentKeyOpts struct {
	Parser        string `json:"parser"`
	Configuration string `json:"configuration,omitempty"`
	IncludeDev    bool   `json:"include_dev,omitempty"`
	Group         string `json:"group,omitempty"`
	Name          string `json:"name,omitempty"`
	Version       string `json:"version,omitempty"`
	DocumentName  string `json:"document_name,omitempty"`
	NamespaceBase string `json:"namespace_base"`
	UUIDNamespace bool   `json:"uuid_namespace,omitempty"`
	Detailed      bool   `json:"detailed,omitempty"`
	Format        string `json:"format"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey hashes the input hash together with opts.
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", inputHash, opts)
}
