package internal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// VariableLookup resolves a variable name or dotted path to its string form.
// It mirrors the public VariableResolver interface to avoid import cycles.
type VariableLookup interface {
	Resolve(path string) (string, bool)
}

// TagHandler mirrors the public TagHandler interface for internal use.
type TagHandler interface {
	TagName() string
	Render(ctx context.Context, vars VariableLookup, markup string) (string, error)
}

// Registry manages tag handler registration with first-come-wins semantics.
// It is thread-safe for concurrent read/write access.
type Registry struct {
	handlers map[string]TagHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewRegistry creates a new tag registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		handlers: make(map[string]TagHandler),
		logger:   logger,
	}
}

// Register adds a handler to the registry.
// If a handler for the same tag name already exists, returns an error
// and keeps the existing one.
func (r *Registry) Register(handler TagHandler) error {
	if handler == nil {
		return NewRegistryError(ErrMsgNilHandler, StringValueEmpty)
	}

	tagName := handler.TagName()
	if tagName == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyTagName, StringValueEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.handlers[tagName]; exists {
		r.logger.Warn(LogMsgHandlerCollision,
			zap.String(LogFieldTagName, tagName),
			zap.String(LogFieldExisting, existing.TagName()),
		)
		return NewRegistryError(ErrMsgHandlerAlreadyExists, tagName)
	}

	r.handlers[tagName] = handler
	r.logger.Debug(LogMsgHandlerRegistered, zap.String(LogFieldTagName, tagName))
	return nil
}

// MustRegister adds a handler and panics if registration fails.
func (r *Registry) MustRegister(handler TagHandler) {
	if err := r.Register(handler); err != nil {
		panic(err)
	}
}

// Get retrieves a handler by tag name.
func (r *Registry) Get(tagName string) (TagHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[tagName]
	return handler, exists
}

// Has checks if a handler is registered for the given tag name.
func (r *Registry) Has(tagName string) bool {
	_, exists := r.Get(tagName)
	return exists
}

// List returns all registered tag names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	TagName string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, tagName string) *RegistryError {
	return &RegistryError{
		Message: message,
		TagName: tagName,
	}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.TagName != StringValueEmpty {
		return fmt.Sprintf(ErrFmtTagMessage, e.Message, e.TagName)
	}
	return e.Message
}

// Registry error message constants
const (
	ErrMsgNilHandler           = "tag handler cannot be nil"
	ErrMsgEmptyTagName         = "tag handler name cannot be empty"
	ErrMsgHandlerAlreadyExists = "tag handler already registered for tag"
	ErrMsgHandlerUnknown       = "no tag handler registered for tag"
)

// ErrFmtTagMessage formats a message with its tag name
const ErrFmtTagMessage = "%s: %s"
