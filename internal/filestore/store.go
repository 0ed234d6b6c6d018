package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xxxsen/trailmark/internal/config"
)

// Store keeps photo blobs. Keys are flat names without path separators.
type Store interface {
	Type() string
	Save(ctx context.Context, key string, r ReadSeekCloser, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type ReadSeekCloser interface {
	io.ReadSeeker
	io.Closer
}

// Factory builds a store from the free-form data block of the config.
type Factory func(args interface{}) (Store, error)

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var stores = &registry{factories: make(map[string]Factory)}

func (r *registry) add(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *registry) get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

func storeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes a store type available to New. Blank names and nil
// factories are ignored.
func Register(name string, factory Factory) {
	if key := storeName(name); key != "" && factory != nil {
		stores.add(key, factory)
	}
}

func New(cfg config.FileStoreConfig) (Store, error) {
	key := storeName(cfg.Type)
	if key == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	factory, ok := stores.get(key)
	if !ok {
		return nil, fmt.Errorf("unsupported file store type: %s", cfg.Type)
	}
	store, err := factory(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("init %s store: %w", key, err)
	}
	return store, nil
}

// ValidKey rejects keys that could escape the store root.
func ValidKey(key string) bool {
	switch key {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

// decodeConfig round-trips the loosely typed config block into dst.
func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
