// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package provider

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

// DefaultCacheAge is how long a cached response is served before it is
// considered stale and re-fetched.
const DefaultCacheAge = 24 * time.Hour

// Cache stores raw provider responses on disk so repeated runs over the
// same tickers do not burn through the provider's request quota. Entries
// older than MaxAge are treated as misses.
type Cache struct {
	dir    string
	maxAge time.Duration
}

func NewCache(dir string, maxAge time.Duration) (*Cache, error) {
	if maxAge <= 0 {
		maxAge = DefaultCacheAge
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	return &Cache{
		dir:    dir,
		maxAge: maxAge,
	}, nil
}

// CacheKey builds a filesystem-safe cache key from request parts.
func CacheKey(parts ...string) string {
	return slug.Make(strings.Join(parts, "-"))
}

func (cache *Cache) path(key string) string {
	return filepath.Join(cache.dir, key+".json")
}

// Get returns the cached body for a key, or false when the entry is absent
// or stale.
func (cache *Cache) Get(key string) ([]byte, bool) {
	fn := cache.path(key)

	info, err := os.Stat(fn)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > cache.maxAge {
		log.Debug().Str("FileName", fn).Msg("cache entry expired")
		return nil, false
	}

	body, err := os.ReadFile(fn)
	if err != nil {
		log.Warn().Err(err).Str("FileName", fn).Msg("could not read cache entry")
		return nil, false
	}

	return body, true
}

// Put stores a response body under a key, overwriting any previous entry.
func (cache *Cache) Put(key string, body []byte) error {
	return os.WriteFile(cache.path(key), body, 0640)
}

// Purge removes every cached entry.
func (cache *Cache) Purge() error {
	entries, err := os.ReadDir(cache.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		if err := os.Remove(filepath.Join(cache.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}
