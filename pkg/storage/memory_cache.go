package storage

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type cacheItem struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// MemoryCache is an LRU cache with per-entry expiry.
type MemoryCache struct {
	maxSize    int
	defaultTTL time.Duration
	items      map[string]*cacheItem
	lruList    *list.List
	mu         sync.Mutex
	now        func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache holding at most maxSize entries. Entries set
// with a zero ttl use defaultTTL; a zero defaultTTL means they never expire.
func NewMemoryCache(maxSize int, defaultTTL time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		items:      make(map[string]*cacheItem),
		lruList:    list.New(),
		now:        time.Now,
	}
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if ttl <= 0 {
		ttl = mc.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = mc.now().Add(ttl)
	}
	value = append([]byte(nil), value...)

	if item, exists := mc.items[key]; exists {
		item.value = value
		item.expiresAt = expiresAt
		mc.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{key: key, value: value, expiresAt: expiresAt}
	item.element = mc.lruList.PushFront(item)
	mc.items[key] = item

	if len(mc.items) > mc.maxSize {
		mc.purgeExpired()
	}
	for len(mc.items) > mc.maxSize {
		mc.evictOldest()
	}
	return nil
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		return nil, false, nil
	}
	if mc.expired(item) {
		mc.deleteItem(item)
		return nil, false, nil
	}

	mc.lruList.MoveToFront(item.element)
	return append([]byte(nil), item.value...), true, nil
}

func (mc *MemoryCache) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
	mc.lruList = list.New()
	return nil
}

func (mc *MemoryCache) expired(item *cacheItem) bool {
	return !item.expiresAt.IsZero() && mc.now().After(item.expiresAt)
}

// purgeExpired drops every expired entry and returns how many were removed.
// Callers hold mc.mu.
func (mc *MemoryCache) purgeExpired() int {
	removed := 0
	for _, item := range mc.items {
		if mc.expired(item) {
			mc.deleteItem(item)
			removed++
		}
	}
	return removed
}

func (mc *MemoryCache) evictOldest() {
	if element := mc.lruList.Back(); element != nil {
		mc.deleteItem(element.Value.(*cacheItem))
	}
}

func (mc *MemoryCache) deleteItem(item *cacheItem) {
	delete(mc.items, item.key)
	mc.lruList.Remove(item.element)
}
