package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	sharedCache "github.com/davicafu/billingbridge/internal/shared/infra/platform/cache"
)

// ErrCacheDown se devuelve desde FailingCache.
var ErrCacheDown = errors.New("cache unavailable")

// DummyCache es una caché en memoria síncrona para tests: Set es visible al instante
// y se puede contar cuántas escrituras hubo.
type DummyCache struct {
	store map[string][]byte
	sets  int
	mu    sync.RWMutex
}

var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{store: make(map[string][]byte)}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	c.sets++
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// Sets devuelve el número de escrituras recibidas.
func (c *DummyCache) Sets() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sets
}

// FailingCache falla en todas las operaciones.
type FailingCache struct{}

var _ sharedCache.Cache = FailingCache{}

func (FailingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, ErrCacheDown
}

func (FailingCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	return ErrCacheDown
}

func (FailingCache) Delete(ctx context.Context, key string) error { return ErrCacheDown }
