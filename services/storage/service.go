package storage

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type Diagnostic interface {
	Error(msg string, err error)
	StoreOpened(path string, elapsed time.Duration)
}

const versionsNamespace = "versions"

// Service hands out namespaced stores backed by one bolt file, or by
// memory when it was created with NewMemService.
type Service struct {
	c    Config
	diag Diagnostic

	mu       sync.Mutex
	boltdb   *bolt.DB
	inMemory bool
	stores   map[string]Interface
	versions Versions
}

func NewService(c Config, d Diagnostic) *Service {
	return &Service{
		c:      c,
		diag:   d,
		stores: make(map[string]Interface),
	}
}

// NewMemService returns an opened service keeping every store in memory.
func NewMemService() *Service {
	s := &Service{
		inMemory: true,
		stores:   make(map[string]Interface),
	}
	s.versions = NewVersions(s.store(versionsNamespace))
	return s
}

func (s *Service) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inMemory {
		return nil
	}
	if err := s.c.Validate(); err != nil {
		return err
	}
	path, err := s.c.ExpandPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "mkdir dirs %q", path)
	}
	start := time.Now()
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: s.c.Timeout})
	if err != nil {
		return errors.Wrapf(err, "open boltdb @ %q", path)
	}
	s.boltdb = db
	s.versions = NewVersions(s.store(versionsNamespace))
	if s.diag != nil {
		s.diag.StoreOpened(path, time.Since(start))
	}
	return nil
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.boltdb == nil {
		return nil
	}
	err := s.boltdb.Close()
	s.boltdb = nil
	if err != nil && s.diag != nil {
		s.diag.Error("failed to close store", err)
	}
	return err
}

// Store returns the store of a namespace. The same namespace always yields
// the same store.
func (s *Service) Store(name string) Interface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store(name)
}

func (s *Service) store(name string) Interface {
	if store, ok := s.stores[name]; ok {
		return store
	}
	var store Interface
	if s.inMemory {
		store = NewMemStore(name)
	} else {
		store = NewBolt(s.boltdb, name)
	}
	s.stores[name] = store
	return store
}

func (s *Service) Versions() Versions {
	return s.versions
}
