// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostprobe

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// deepCacheEntry holds one category's last collected value and when it was
// collected, so a repeat needs() call within TTL is served without a fresh
// probe — including an entire-category failure, cached as an empty record
// to avoid retry storms.
type deepCacheEntry struct {
	value      any
	collectedAt time.Time
}

// DeepCache is a per-category, TTL-bounded, single-flighted cache for deep
// probe results. One DeepCache is shared across all ProbeDeep calls for a
// given engine instance.
type DeepCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[Category]deepCacheEntry

	group singleflight.Group
}

// NewDeepCache builds a cache with the given per-category TTL.
func NewDeepCache(ttl time.Duration) *DeepCache {
	return &DeepCache{
		ttl:     ttl,
		entries: make(map[Category]deepCacheEntry),
	}
}

// get returns a cached value for category if present and not expired.
func (c *DeepCache) get(category Category) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[category]
	if !ok {
		return nil, false
	}
	if time.Since(entry.collectedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *DeepCache) set(category Category, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[category] = deepCacheEntry{value: value, collectedAt: time.Now()}
}

// resolve serves a cached value for category when fresh, else single-
// flights fn across concurrent callers so a flaky/slow probe is never
// dogpiled, and caches the (possibly empty, on error) result.
func (c *DeepCache) resolve(category Category, fn func() any) any {
	if v, ok := c.get(category); ok {
		deepCacheHits.WithLabelValues(string(category)).Inc()
		return v
	}

	v, _, _ := c.group.Do(string(category), func() (any, error) {
		if v, ok := c.get(category); ok {
			return v, nil
		}
		result := fn()
		c.set(category, result)
		return result, nil
	})
	return v
}

// Invalidate forces the next resolve for category to recompute.
func (c *DeepCache) Invalidate(category Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, category)
}
