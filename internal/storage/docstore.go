package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	CollectionDishes  = "dishes"
	CollectionOrders  = "orders"
	CollectionReviews = "reviews"
)

var (
	ErrCollectionMissing = errors.New("collection does not exist")
	// ErrCollectionDamaged blocks writes over a collection holding records that
	// do not decode, so those records are never dropped from the file.
	ErrCollectionDamaged = errors.New("collection holds undecodable records")
)

// Backend keeps the raw JSON body of each named collection.
type Backend interface {
	Read(name string) ([]byte, error)
	// Write replaces the whole body. A concurrent Read sees either the old or the new body.
	Write(name string, data []byte) error
	// Init creates an empty collection if none exists yet.
	Init(name string) error
}

// Store loads and saves whole collections. Every collection has its own lock:
// loads share it, saves and read-modify-write cycles hold it exclusively.
type Store struct {
	backend Backend
	logger  *zap.SugaredLogger

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewStore(backend Backend, logger *zap.SugaredLogger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		locks:   make(map[string]*sync.RWMutex),
	}
}

func (s *Store) Init(names ...string) error {
	for _, name := range names {
		lock := s.lock(name)
		lock.Lock()
		err := s.backend.Init(name)
		lock.Unlock()
		if err != nil {
			return fmt.Errorf("init collection %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) lock(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.RWMutex{}
		s.locks[name] = lock
	}
	return lock
}

// read returns the raw records of a collection. Callers hold the collection lock.
func (s *Store) read(name string) ([]json.RawMessage, bool) {
	data, err := s.backend.Read(name)
	if err != nil {
		s.logger.Warnw("collection unreadable, using empty collection", "collection", name, "error", err)
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Warnw("collection is empty, using empty collection", "collection", name)
		return nil, false
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warnw("collection holds invalid JSON, using empty collection", "collection", name, "error", err)
		return nil, false
	}
	return records, true
}

// write encodes records and hands them to the backend. Callers hold the collection lock.
func (s *Store) write(name string, records any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}
	if err := s.backend.Write(name, buf.Bytes()); err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	return nil
}

// Collection is a typed view over one named collection of a Store.
type Collection[T any] struct {
	store *Store
	name  string
}

func NewCollection[T any](store *Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load skips records that do not decode into T and logs each of them.
func (c *Collection[T]) Load() []T {
	lock := c.store.lock(c.name)
	lock.RLock()
	defer lock.RUnlock()
	records, _ := c.load()
	return records
}

func (c *Collection[T]) Save(records []T) error {
	lock := c.store.lock(c.name)
	lock.Lock()
	defer lock.Unlock()
	return c.save(records)
}

// Mutate runs a full load, fn, save cycle while holding the collection lock, so
// two concurrent mutations never overwrite each other. If fn fails nothing is saved.
// A collection with undecodable records is not rewritten and yields ErrCollectionDamaged.
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) ([]T, error) {
	lock := c.store.lock(c.name)
	lock.Lock()
	defer lock.Unlock()

	current, skipped := c.load()
	if skipped > 0 {
		return nil, fmt.Errorf("%w: %s has %d", ErrCollectionDamaged, c.name, skipped)
	}
	records, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := c.save(records); err != nil {
		return nil, err
	}
	return records, nil
}

// load decodes every record on its own and reports how many were skipped.
func (c *Collection[T]) load() ([]T, int) {
	raw, ok := c.store.read(c.name)
	if !ok {
		return []T{}, 0
	}
	records := make([]T, 0, len(raw))
	skipped := 0
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			c.store.logger.Warnw("skipping undecodable record", "collection", c.name, "index", i, "error", err)
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func (c *Collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	return c.store.write(c.name, records)
}
