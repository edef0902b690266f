package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Entry represents a cache entry
type Entry struct {
	Key     string
	Path    string
	Size    int64
	element *list.Element
}

// DiskCache is an LRU disk cache of remote audio sources. Entries persist
// across sessions.
type DiskCache struct {
	mu          sync.Mutex
	logger      *zap.Logger
	client      *http.Client
	cacheDir    string
	maxSize     int64
	currentSize int64

	// LRU tracking
	entries map[string]*Entry
	lru     *list.List

	// Download synchronization - prevents concurrent downloads of same URL
	downloadLocks sync.Map // map[string]*sync.Mutex
}

// NewDiskCache creates a new disk-based LRU cache.
// On startup, it scans the cache directory and loads existing cached files.
func NewDiskCache(cacheDir string, maxSizeBytes int64, logger *zap.Logger) (*DiskCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &DiskCache{
		logger:   logger,
		client:   http.DefaultClient,
		cacheDir: cacheDir,
		maxSize:  maxSizeBytes,
		entries:  make(map[string]*Entry),
		lru:      list.New(),
	}

	if err := c.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan cache: %w", err)
	}

	logger.Info("Source cache ready",
		zap.String("dir", cacheDir),
		zap.Int("entries", len(c.entries)),
		zap.Int64("bytes", c.currentSize))
	return c, nil
}

// SetHTTPClient replaces the client used for downloads
func (c *DiskCache) SetHTTPClient(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}

// scan loads existing cache entries from disk
func (c *DiskCache) scan() error {
	return filepath.Walk(c.cacheDir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		// Interrupted downloads
		if filepath.Ext(p) == ".tmp" {
			os.Remove(p)
			return nil
		}

		base := filepath.Base(p)
		key := strings.TrimSuffix(base, filepath.Ext(base))

		entry := &Entry{
			Key:  key,
			Path: p,
			Size: info.Size(),
		}
		entry.element = c.lru.PushBack(entry)
		c.entries[key] = entry
		c.currentSize += info.Size()

		return nil
	})
}

// IsRemote reports whether ref must be downloaded before decoding
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// hashKey creates a consistent hash for a key
func hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// keyToPath converts a source URL to its cache path. The URL's extension
// is kept so decoders can be picked by file name.
func (c *DiskCache) keyToPath(key string) string {
	ext := ""
	if u, err := url.Parse(key); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	return filepath.Join(c.cacheDir, hashKey(key)+ext)
}

// Lookup returns the cached file for a source URL
func (c *DiskCache) Lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := hashKey(key)
	entry, exists := c.entries[hash]
	if !exists {
		return "", false
	}

	if _, err := os.Stat(entry.Path); err != nil {
		// File disappeared, remove from cache
		c.removeLocked(entry)
		return "", false
	}

	c.lru.MoveToFront(entry.element)
	return entry.Path, true
}

// Resolve returns a local path for ref, downloading remote sources into
// the cache. Local paths are returned unchanged.
func (c *DiskCache) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		return ref, nil
	}
	return c.Fetch(ctx, ref)
}

// Fetch downloads a source URL into the cache unless already present
func (c *DiskCache) Fetch(ctx context.Context, rawURL string) (string, error) {
	if p, ok := c.Lookup(rawURL); ok {
		return p, nil
	}

	// Get lock for this URL to prevent concurrent downloads
	lock := c.getDownloadLock(rawURL)
	lock.Lock()
	defer lock.Unlock()

	// Check again after acquiring lock (another goroutine may have completed it)
	if p, ok := c.Lookup(rawURL); ok {
		return p, nil
	}

	finalPath := c.keyToPath(rawURL)
	tempPath := finalPath + ".tmp"

	size, err := c.download(ctx, rawURL, tempPath)
	if err != nil {
		os.Remove(tempPath)
		return "", err
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to finalize cache file: %w", err)
	}

	c.register(hashKey(rawURL), finalPath, size)
	c.logger.Info("Cached source", zap.String("url", rawURL), zap.Int64("bytes", size))
	return finalPath, nil
}

func (c *DiskCache) download(ctx context.Context, rawURL, dest string) (int64, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	c.logger.Debug("Downloading source", zap.String("url", rawURL))
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch URL: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create cache file: %w", err)
	}
	size, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write cache file: %w", err)
	}
	return size, nil
}

// register adds a finished file, evicting old entries to make room
func (c *DiskCache) register(hash, p string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[hash]; exists {
		c.lru.MoveToFront(entry.element)
		return
	}

	// Evict until there's space
	for c.currentSize+size > c.maxSize && c.lru.Len() > 0 {
		c.evictOldest()
	}

	entry := &Entry{
		Key:  hash,
		Path: p,
		Size: size,
	}
	entry.element = c.lru.PushFront(entry)
	c.entries[hash] = entry
	c.currentSize += size
}

// evictOldest removes the least recently used entry
func (c *DiskCache) evictOldest() {
	element := c.lru.Back()
	if element == nil {
		return
	}

	entry := element.Value.(*Entry)
	c.removeLocked(entry)
	os.Remove(entry.Path)
	c.logger.Debug("Evicted cache entry", zap.String("path", entry.Path))
}

func (c *DiskCache) removeLocked(entry *Entry) {
	c.lru.Remove(entry.element)
	delete(c.entries, entry.Key)
	c.currentSize -= entry.Size
}

// Invalidate removes a cache entry both from memory and disk.
// Use this when a cached file turns out to be undecodable.
func (c *DiskCache) Invalidate(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[hashKey(key)]
	if !exists {
		return nil
	}
	c.removeLocked(entry)

	if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}

	c.logger.Info("Invalidated cache entry", zap.String("url", key))
	return nil
}

// Clear removes all cache entries
func (c *DiskCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.lru = list.New()
	c.currentSize = 0

	if err := os.RemoveAll(c.cacheDir); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return os.MkdirAll(c.cacheDir, 0755)
}

// Size returns current cache size in bytes
func (c *DiskCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSize
}

// Len returns the number of cached sources
func (c *DiskCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// getDownloadLock returns a mutex for the given URL to prevent concurrent downloads
func (c *DiskCache) getDownloadLock(url string) *sync.Mutex {
	lock, _ := c.downloadLocks.LoadOrStore(url, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
