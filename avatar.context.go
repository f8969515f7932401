package avatar

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// VariableResolver resolves a variable name or dotted path (e.g. "page.author")
// to its string value. The bool is false when the path is absent.
type VariableResolver interface {
	Resolve(path string) (string, bool)
}

// VariableResolverFunc adapts a function to the VariableResolver interface.
type VariableResolverFunc func(path string) (string, bool)

// Resolve calls f(path).
func (f VariableResolverFunc) Resolve(path string) (string, bool) {
	return f(path)
}

// Context provides access to template variables.
// It supports dot-notation path resolution (e.g., "page.author.login")
// and hierarchical scoping through parent-child relationships.
type Context struct {
	data   map[string]any
	parent *Context
	mu     sync.RWMutex
}

// NewContext creates a new execution context with the given data.
// If data is nil, an empty map is used.
func NewContext(data map[string]any) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	return &Context{data: data}
}

// Get retrieves a value by dot-notation path.
// Returns the value and true if found, or nil and false if not found.
func (c *Context) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.getPath(strings.TrimSpace(path))
}

// getPath resolves a dot-notation path without locking (internal use).
func (c *Context) getPath(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = c.data
	for _, part := range strings.Split(path, PathSeparator) {
		if part == "" {
			continue
		}

		var (
			val any
			ok  bool
		)
		switch v := current.(type) {
		case map[string]any:
			val, ok = v[part]
		case map[string]string:
			val, ok = v[part]
		case map[any]any:
			val, ok = v[part]
		}
		if !ok {
			if c.parent != nil {
				return c.parent.Get(path)
			}
			return nil, false
		}
		current = val
	}

	return current, true
}

// Resolve returns the string form of the value at path.
// A nil value is reported as absent.
func (c *Context) Resolve(path string) (string, bool) {
	val, ok := c.Get(path)
	if !ok || val == nil {
		return "", false
	}
	return valueToString(val), true
}

// Set sets a top-level value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// Has checks if a value exists at the given path.
func (c *Context) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Child creates a child context with additional data.
// The child inherits from the parent and can override values.
func (c *Context) Child(data map[string]any) *Context {
	child := NewContext(data)
	child.parent = c
	return child
}

// Parent returns the parent context, or nil for a root context.
func (c *Context) Parent() *Context {
	return c.parent
}

// valueToString converts any value to its string representation.
func valueToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
