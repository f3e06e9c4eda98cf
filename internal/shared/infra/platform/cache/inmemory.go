package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// DefaultCleanupInterval es cada cuánto se purgan las entradas caducadas.
const DefaultCleanupInterval = time.Minute

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryCache es la alternativa local a Redis: guarda JSON con caducidad.
// Una goroutine purga periódicamente las entradas caducadas; llamar a Stop al apagar.
type InMemoryCache struct {
	store    map[string]entry
	mu       sync.RWMutex
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Cache = (*InMemoryCache)(nil)

// NewInMemoryCache arranca la limpieza cada cleanupInterval (<= 0 usa DefaultCleanupInterval).
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	c := &InMemoryCache{
		store:    make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	go c.cleanupLoop(cleanupInterval)

	return c
}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if e.expired(c.now()) {
		c.mu.Lock()
		delete(c.store, key)
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set con ttlSecs <= 0 guarda la entrada sin caducidad.
func (c *InMemoryCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	e := entry{data: data}
	if ttlSecs > 0 {
		e.expiresAt = c.now().Add(time.Duration(ttlSecs) * time.Second)
	}

	c.mu.Lock()
	c.store[key] = e
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

// Len devuelve cuántas entradas se retienen, caducadas o no.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stop detiene la goroutine de limpieza. Se puede llamar más de una vez.
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *InMemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.store {
		if e.expired(now) {
			delete(c.store, key)
		}
	}
}
