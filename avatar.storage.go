package avatar

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PageID is a unique identifier for a stored page version ("page_<uuid>").
type PageID string

// StoredPage is a page source with version metadata.
type StoredPage struct {
	ID        PageID    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Version   int       `json:"version"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageStorage is the interface for pluggable page source backends.
// Implementations must be safe for concurrent use.
type PageStorage interface {
	// Get retrieves the latest version of a page by name.
	Get(ctx context.Context, name string) (*StoredPage, error)

	// Save stores a page. Saving an existing name creates a new version.
	// ID, Version, CreatedAt and UpdatedAt are set by the storage.
	Save(ctx context.Context, page *StoredPage) error

	// Delete removes all versions of a page.
	Delete(ctx context.Context, name string) error

	// List returns the latest version of every page, ordered by name.
	List(ctx context.Context) ([]*StoredPage, error)

	// Exists checks if a page with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	Open(connectionString string) (PageStorage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if the driver is nil or the name is already registered.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
//	storage, err := avatar.OpenStorage("memory", "")
//	storage, err := avatar.OpenStorage("postgres", "postgres://localhost/site?sslmode=disable")
func OpenStorage(driverName, connectionString string) (PageStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, &StorageError{Message: ErrMsgStorageDriverNotFound, Name: driverName}
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderStored loads the named page from storage and renders it.
func (e *Engine) RenderStored(ctx context.Context, storage PageStorage, name string, site, data map[string]any) (string, error) {
	stored, err := storage.Get(ctx, name)
	if err != nil {
		return "", err
	}
	page, err := ParsePage(stored.Name, []byte(stored.Source))
	if err != nil {
		return "", err
	}
	return e.RenderPage(ctx, page, site, data)
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver          = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered   = "storage driver already registered"
	ErrMsgStorageDriverNotFound     = "storage driver not found"
	ErrMsgStorageClosed             = "storage is closed"
	ErrMsgPageNotFound              = "page not found"
	ErrMsgInvalidPageName           = "page name cannot be empty"
	ErrMsgPostgresConnectionFailed  = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed       = "PostgreSQL query failed"
	ErrMsgPostgresTransactionFailed = "PostgreSQL transaction failed"
	ErrMsgPostgresMigrationFailed   = "PostgreSQL migration failed"
	ErrMsgPostgresEmptyConnString   = "PostgreSQL connection string is empty"
	ErrMsgPostgresAlreadyClosed     = "PostgreSQL storage is already closed"
	ErrMsgInvalidStorageRoot        = "invalid storage root path"
	ErrMsgCreateStorageDir          = "failed to create storage directory"
	ErrMsgReadStorageDir            = "failed to read storage directory"
	ErrMsgMarshalPage               = "failed to marshal page"
	ErrMsgUnmarshalPage             = "failed to unmarshal page"
	ErrMsgWritePage                 = "failed to write page file"
	ErrMsgReadPage                  = "failed to read page file"
	ErrMsgDeletePage                = "failed to delete page"
	ErrMsgPathTraversalDetected     = "page name contains path traversal"
	ErrMsgInvalidFilesystemName     = "page name contains characters not allowed in file names"
)

// ErrPageNotFound is matched by errors.Is for missing pages.
var ErrPageNotFound = errors.New(ErrMsgPageNotFound)

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
		if e.Version > 0 {
			msg += " v" + strconv.Itoa(e.Version)
		}
	}
	if e.Cause != nil && !errors.Is(e.Cause, ErrPageNotFound) {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewPageNotFoundError creates an error for a page missing from storage.
func NewPageNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgPageNotFound, Name: name, Cause: ErrPageNotFound}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

func generatePageID() PageID {
	return PageID(PageIDPrefix + uuid.NewString())
}

func copyStoredPage(p *StoredPage) *StoredPage {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
