package fileshaker

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// HashCache is a persistent mapping from (path, size, mtime) to a previously
// computed content hash. A stored hash is returned only while the file's size
// and modification time still match the values recorded at insertion time;
// any mismatch is a miss and the file is rehashed.
//
// The cache is the sole optimisation preventing a full rehash of unchanged
// trees across runs. Correctness never depends on it: a corrupt or missing
// backing store is treated as an empty cache.
type HashCache struct {
	path    string
	mutex   sync.Mutex
	entries map[string]string
	dirty   bool
}

// NewHashCache creates a cache backed by the given file path. Call Load
// before first use and Persist before exit.
func NewHashCache(path string) *HashCache {
	return &HashCache{
		path:    path,
		entries: make(map[string]string),
	}
}

// cacheKey builds the persisted key for a file entry. Modification time is
// kept at nanosecond precision so any touch invalidates the entry.
func cacheKey(entry *FileEntry) string {
	return fmt.Sprintf("%s:%d:%d", entry.Path, entry.Size, entry.ModTime.UnixNano())
}

// Load reads the backing store. A missing, unreadable or corrupt store is
// never fatal; the cache simply starts empty and the tree is rehashed.
func (c *HashCache) Load() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			VerboseLog(1, "hash cache %s unreadable, starting empty: %v", c.path, err)
		}
		return
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		VerboseLog(1, "hash cache %s corrupt, starting empty: %v", c.path, err)
		return
	}

	c.entries = entries
}

// Lookup returns the cached hash for a file entry. The hit requires an exact
// match on path, size and modification time; a changed file never produces a
// stale hit.
func (c *HashCache) Lookup(entry *FileEntry) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	hash, ok := c.entries[cacheKey(entry)]
	return hash, ok
}

// Store upserts the hash for a file entry. Last writer wins if the same key
// is written twice, which the resolver avoids by hashing each file once.
func (c *HashCache) Store(entry *FileEntry, hash string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[cacheKey(entry)] = hash
	c.dirty = true
}

// Len returns the number of cached entries
func (c *HashCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

// Persist writes the cache to its backing store via a temp file and rename,
// so a crash mid-write never corrupts the previous store. Unlike Load, a
// persist failure is surfaced: losing hash progress on a large tree is
// something the caller needs to know about.
func (c *HashCache) Persist() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode hash cache: %w", err)
	}

	if err := writeFileAtomic(c.path, data); err != nil {
		return fmt.Errorf("failed to write hash cache %s: %w", c.path, err)
	}

	c.dirty = false
	return nil
}
