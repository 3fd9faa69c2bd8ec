// schema/registry.go
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
)

//go:embed default_schema.json
var defaultSchemaJSON []byte

// DefaultSchemaName is the registry key of the embedded schema.
const DefaultSchemaName = "default"

// Registry is the process-wide schema cache. It is read-mostly: lookups
// take a read lock, and a load or reload takes the write lock only to
// swap the cached snapshot in.
type Registry struct {
	mu      sync.RWMutex
	cache   map[string]*Schema
	sources map[string][]byte
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// CacheStats reports the registry's cache contents and counters.
type CacheStats struct {
	CachedSchemas int      `json:"cached_schemas"`
	SchemaNames   []string `json:"schema_names"`
	Hits          uint64   `json:"hits"`
	Misses        uint64   `json:"misses"`
}

// NewRegistry creates an empty registry. The embedded default schema is
// parsed lazily on first load.
func NewRegistry() *Registry {
	return &Registry{
		cache:   make(map[string]*Schema),
		sources: make(map[string][]byte),
	}
}

// LoadDefault loads the embedded default schema, caching it on first use.
func (r *Registry) LoadDefault() (*Schema, error) {
	return r.Load(DefaultSchemaName)
}

// Load returns the named schema, parsing and caching it when missing.
// Repeated loads of the same name return the same snapshot.
func (r *Registry) Load(name string) (*Schema, error) {
	if name == "" {
		name = DefaultSchemaName
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		r.hits.Add(1)
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another loader may have raced us here
	if cached, ok := r.cache[name]; ok {
		r.hits.Add(1)
		return cached, nil
	}
	r.misses.Add(1)

	source, err := r.sourceFor(name)
	if err != nil {
		return nil, err
	}
	parsed, err := Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: schema %q: %v", sentra_errors.ErrSchemaLoadFailed, name, err)
	}
	r.cache[name] = parsed
	logger.Info("Schema loaded",
		zap.String("schema", name),
		zap.String("version", parsed.Version),
		zap.Int("entityTypes", len(parsed.EntityTypes)))
	return parsed, nil
}

// Register installs a schema document under a name so later Load calls
// can resolve it. The document is parsed eagerly to reject bad input at
// registration time.
func (r *Registry) Register(name string, content []byte) (*Schema, error) {
	parsed, err := Parse(content)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = content
	r.cache[name] = parsed
	return parsed, nil
}

// Reload discards the cached snapshot for a name and parses it fresh.
func (r *Registry) Reload(name string) (*Schema, error) {
	if name == "" {
		name = DefaultSchemaName
	}
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
	return r.Load(name)
}

// ClearCache drops every cached snapshot. Registered sources survive so
// named schemas remain loadable.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*Schema)
}

// Stats returns a point-in-time view of the cache.
func (r *Registry) Stats() CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cache))
	for name := range r.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return CacheStats{
		CachedSchemas: len(r.cache),
		SchemaNames:   names,
		Hits:          r.hits.Load(),
		Misses:        r.misses.Load(),
	}
}

func (r *Registry) sourceFor(name string) ([]byte, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	if name == DefaultSchemaName {
		return defaultSchemaJSON, nil
	}
	return nil, fmt.Errorf("%w: %q", sentra_errors.ErrSchemaNotFound, name)
}
