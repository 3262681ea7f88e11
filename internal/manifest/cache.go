// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

var (
	// Process-wide cache; lives only in memory.
	globalCache     *Manifest
	globalCacheLock sync.RWMutex
)

// GetCached returns the cached manifest, or nil.
func GetCached() *Manifest {
	globalCacheLock.RLock()
	defer globalCacheLock.RUnlock()
	return globalCache
}

// SetCached stores the manifest.
func SetCached(m *Manifest) {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = m
}

// ClearCache removes the manifest (primarily for testing).
func ClearCache() {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = nil
}
