package report

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// ErrNotFound is returned for unknown or evicted report IDs.
var ErrNotFound = eris.New("report: not found")

// Entry is a cached report and the upload it came from.
type Entry struct {
	ID       string
	Filename string
	Key      string
	Report   *Report
}

// Cache keeps recently built reports keyed by upload content and options, so
// re-selecting an indicator or re-uploading the same file skips the pipeline.
type Cache struct {
	mu   sync.Mutex
	lru  *lru.Cache
	byID map[string]string
}

// NewCache returns a cache holding at most size reports.
func NewCache(size int) *Cache {
	c := &Cache{
		lru:  lru.New(size),
		byID: make(map[string]string),
	}
	c.lru.OnEvicted = func(_ lru.Key, value interface{}) {
		delete(c.byID, value.(*Entry).ID)
	}
	return c
}

// Key derives the cache key from the upload bytes and an options fingerprint.
func Key(data []byte, fingerprint string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// GetOrBuild returns the entry for key, calling build on a miss. cached reports
// whether the entry already existed.
func (c *Cache) GetOrBuild(key, filename string, build func() (*Report, error)) (entry *Entry, cached bool, err error) {
	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.mu.Unlock()
		return v.(*Entry), true, nil
	}
	c.mu.Unlock()

	rep, err := build()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(key); ok {
		return v.(*Entry), true, nil
	}
	entry = &Entry{ID: uuid.NewString(), Filename: filename, Key: key, Report: rep}
	c.lru.Add(key, entry)
	c.byID[entry.ID] = key
	return entry, false, nil
}

// Get looks up an entry by ID.
func (c *Cache) Get(id string) (*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, ok := c.byID[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	v, ok := c.lru.Get(key)
	if !ok {
		delete(c.byID, id)
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return v.(*Entry), nil
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
