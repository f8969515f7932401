package avatar

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory PageStorage.
// It is primarily intended for testing and development.
type MemoryStorage struct {
	mu     sync.RWMutex
	pages  map[string][]*StoredPage // name -> versions, newest first
	closed bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage. The connection string is ignored.
func (d *MemoryStorageDriver) Open(connectionString string) (PageStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory page storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{pages: make(map[string][]*StoredPage)}
}

// Get retrieves the latest version of a page by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, ok := s.pages[name]
	if !ok || len(versions) == 0 {
		return nil, NewPageNotFoundError(name)
	}
	return copyStoredPage(versions[0]), nil
}

// Save stores a page, creating a new version if the name exists.
func (s *MemoryStorage) Save(ctx context.Context, page *StoredPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page == nil || page.Name == "" {
		return &StorageError{Message: ErrMsgInvalidPageName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions := s.pages[page.Name]
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}

	now := time.Now()
	page.ID = generatePageID()
	page.Version = nextVersion
	page.CreatedAt = now
	page.UpdatedAt = now

	s.pages[page.Name] = append([]*StoredPage{copyStoredPage(page)}, versions...)
	return nil
}

// Delete removes all versions of a page.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if _, ok := s.pages[name]; !ok {
		return NewPageNotFoundError(name)
	}
	delete(s.pages, name)
	return nil
}

// List returns the latest version of every page, ordered by name.
func (s *MemoryStorage) List(ctx context.Context) ([]*StoredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	out := make([]*StoredPage, 0, len(s.pages))
	for _, versions := range s.pages {
		if len(versions) > 0 {
			out = append(out, copyStoredPage(versions[0]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Exists checks if a page with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	_, ok := s.pages[name]
	return ok, nil
}

// Close marks the storage closed. Further calls return an error.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pages = nil
	return nil
}
