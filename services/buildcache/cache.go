// Package buildcache keeps compiled archives keyed by a digest of their
// source, so that an unchanged program is not compiled twice.
package buildcache

import (
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/services/storage"
)

const (
	namespace = "buildcache"

	// version is the layout of the store, a different recorded version
	// drops every entry.
	version = "1"

	sourceIndex     = "source"
	// indexVersion is the format of the source index values, a different
	// recorded version rebuilds the indexes and keeps the entries.
	indexVersion    = "1"
	indexVersionKey = namespace + "-indexes"
)

type Diagnostic interface {
	Error(msg string, err error)
	CacheHit(key string, size int)
	CacheMiss(key string)
	CacheStored(key string, size int)
}

type Config struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// MaxEntries is the number of builds kept per source file.
	MaxEntries int `toml:"max-entries"`
}

func NewConfig() Config {
	return Config{
		Path:       storage.NewConfig().Path,
		MaxEntries: 4,
	}
}

func (c Config) Validate() error {
	if c.Enabled && c.Path == "" {
		return errors.New("must specify a cache path")
	}
	if c.MaxEntries < 1 {
		return errors.New("max-entries must be positive")
	}
	return nil
}

// StorageConfig returns the configuration of the store backing the cache.
func (c Config) StorageConfig() storage.Config {
	sc := storage.NewConfig()
	sc.Path = c.Path
	return sc
}

// StorageService provides the store of the cache.
type StorageService interface {
	Store(namespace string) storage.Interface
	Versions() storage.Versions
}

type Cache struct {
	c    Config
	diag Diagnostic

	StorageService StorageService
	// Clock stamps the entries.
	Clock clock.Clock

	store   storage.Interface
	entries *storage.IndexedStore
}

func New(c Config, d Diagnostic) *Cache {
	if d == nil {
		d = nopDiagnostic{}
	}
	return &Cache{
		c:     c,
		diag:  d,
		Clock: clock.New(),
	}
}

// Open prepares the store, dropping entries of an older layout.
func (c *Cache) Open() error {
	if c.StorageService == nil {
		return errors.New("must set StorageService")
	}
	c.store = c.StorageService.Store(namespace)
	ic := storage.DefaultIndexedStoreConfig(namespace, func() storage.BinaryObject {
		return new(Entry)
	})
	ic.Indexes = append(ic.Indexes, storage.Index{
		Name: sourceIndex,
		ValueFunc: func(o storage.BinaryObject) (string, error) {
			e, ok := o.(*Entry)
			if !ok {
				return "", storage.ImpossibleTypeErr(e, o)
			}
			return sourceDigest(e.Source) + "/" + e.Created.UTC().Format("20060102T150405.000000000"), nil
		},
	})
	entries, err := storage.NewIndexedStore(c.store, ic)
	if err != nil {
		return err
	}
	c.entries = entries

	versions := c.StorageService.Versions()
	v, err := versions.Get(namespace)
	if err != nil && err != storage.ErrNoKeyExists {
		return errors.Wrap(err, "reading build cache version")
	}
	if v != version {
		if err := c.Clear(); err != nil {
			return err
		}
		if err := versions.Set(namespace, version); err != nil {
			return err
		}
	}

	iv, err := versions.Get(indexVersionKey)
	if err != nil && err != storage.ErrNoKeyExists {
		return errors.Wrap(err, "reading build cache index version")
	}
	if iv == indexVersion {
		return nil
	}
	if err := c.entries.Rebuild(); err != nil {
		return errors.Wrap(err, "rebuilding build cache indexes")
	}
	return versions.Set(indexVersionKey, indexVersion)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	return c.store.Update(func(tx storage.Tx) error {
		kvs, err := tx.List("")
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			if err := tx.Delete(kv.Key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the entry of a key, unless one of the files it was built from
// changed since.
func (c *Cache) Get(key string) (*Entry, bool) {
	o, err := c.entries.Get(key)
	if err != nil {
		if err != storage.ErrNoObjectExists {
			c.diag.Error("failed to read build cache entry", err)
		}
		c.diag.CacheMiss(key)
		return nil, false
	}
	e := o.(*Entry)
	if path, stale := e.Stale(); stale {
		c.diag.CacheMiss(key)
		if err := c.entries.Delete(key); err != nil {
			c.diag.Error("failed to drop stale build "+path, err)
		}
		return nil, false
	}
	c.diag.CacheHit(key, len(e.Archive))
	return e, true
}

// Put stores an entry and drops the oldest builds of its source beyond
// MaxEntries.
func (c *Cache) Put(e *Entry) error {
	if e.Key == "" {
		return errors.New("build cache entry has no key")
	}
	if e.Created.IsZero() {
		e.Created = c.Clock.Now()
	}
	err := c.store.Update(func(tx storage.Tx) error {
		if err := c.entries.PutTx(tx, e); err != nil {
			return err
		}
		all, err := c.entries.ListTx(tx, sourceIndex, "", 0, -1, true)
		if err != nil {
			return err
		}
		kept := 0
		for _, o := range all {
			other := o.(*Entry)
			if other.Source != e.Source {
				continue
			}
			if kept++; kept <= c.c.MaxEntries {
				continue
			}
			if err := c.entries.DeleteTx(tx, other.Key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "storing build")
	}
	c.diag.CacheStored(e.Key, len(e.Archive))
	return nil
}

// Entries returns the cached builds of a source, newest first.
func (c *Cache) Entries(source string) ([]*Entry, error) {
	all, err := c.entries.ReverseList(sourceIndex, "", 0, -1)
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, o := range all {
		if e := o.(*Entry); e.Source == source {
			out = append(out, e)
		}
	}
	return out, nil
}

type nopDiagnostic struct{}

func (nopDiagnostic) Error(string, error) {}
func (nopDiagnostic) CacheHit(string, int) {}
func (nopDiagnostic) CacheMiss(string) {}
func (nopDiagnostic) CacheStored(string, int) {}
