package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage keeps page versions as JSON files under a root directory:
//
//	<root>/
//	  team.md/
//	    v1.json
//	    v2.json
//	  index.html/
//	    v1.json
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage. The connection string is the root directory.
func (d *FilesystemStorageDriver) Open(connectionString string) (PageStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates the root directory if needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Get retrieves the latest version of a page by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePageNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, err := s.versions(name)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}
	if len(versions) == 0 {
		return nil, NewPageNotFoundError(name)
	}
	return s.load(name, versions[0])
}

// Save writes the next version file for the page.
func (s *FilesystemStorage) Save(ctx context.Context, page *StoredPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page == nil {
		return &StorageError{Message: ErrMsgInvalidPageName}
	}
	if err := validatePageNameForFilesystem(page.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	dir := filepath.Join(s.root, page.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: page.Name, Cause: err}
	}

	versions, err := s.versions(page.Name)
	if err != nil {
		return &StorageError{Message: ErrMsgReadStorageDir, Name: page.Name, Cause: err}
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0] + 1
	}

	now := time.Now().UTC()
	stored := &StoredPage{
		ID:        generatePageID(),
		Name:      page.Name,
		Source:    page.Source,
		Version:   next,
		CreatedBy: page.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalPage, Name: page.Name, Cause: err}
	}
	if err := os.WriteFile(s.versionPath(page.Name, next), data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWritePage, Name: page.Name, Version: next, Cause: err}
	}

	page.ID = stored.ID
	page.Version = stored.Version
	page.CreatedAt = stored.CreatedAt
	page.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes all versions of a page.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePageNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewPageNotFoundError(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return &StorageError{Message: ErrMsgDeletePage, Name: name, Cause: err}
	}
	return nil
}

// List returns the latest version of every page, ordered by name.
// Directories without readable version files are skipped.
func (s *FilesystemStorage) List(ctx context.Context) ([]*StoredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Cause: err}
	}

	var pages []*StoredPage
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		versions, err := s.versions(entry.Name())
		if err != nil || len(versions) == 0 {
			continue
		}
		page, err := s.load(entry.Name(), versions[0])
		if err != nil {
			continue
		}
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })
	return pages, nil
}

// Exists checks if a page with the given name has at least one version.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validatePageNameForFilesystem(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	versions, err := s.versions(name)
	if err != nil {
		return false, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}
	return len(versions) > 0, nil
}

// Close marks the storage closed. Files are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// versions lists the version numbers stored for name, newest first.
// A missing directory yields no versions.
func (s *FilesystemStorage) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var versions []int
	for _, entry := range entries {
		filename := entry.Name()
		if entry.IsDir() ||
			!strings.HasPrefix(filename, FilesystemVersionPrefix) ||
			!strings.HasSuffix(filename, FilesystemVersionSuffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(filename, FilesystemVersionPrefix), FilesystemVersionSuffix))
		if err == nil && n > 0 {
			versions = append(versions, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

func (s *FilesystemStorage) load(name string, version int) (*StoredPage, error) {
	data, err := os.ReadFile(s.versionPath(name, version))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadPage, Name: name, Version: version, Cause: err}
	}

	var page StoredPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalPage, Name: name, Version: version, Cause: err}
	}
	return &page, nil
}

// validatePageNameForFilesystem rejects names that would escape the root
// or are not valid single path elements.
func validatePageNameForFilesystem(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidPageName}
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) {
		return &StorageError{Message: ErrMsgInvalidFilesystemName, Name: name}
	}
	return nil
}
