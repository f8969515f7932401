package internal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHandler implements TagHandler for testing
type mockHandler struct {
	name     string
	renderFn func(ctx context.Context, vars VariableLookup, markup string) (string, error)
}

func newMockHandler(name string) *mockHandler {
	return &mockHandler{
		name: name,
		renderFn: func(ctx context.Context, vars VariableLookup, markup string) (string, error) {
			return "rendered:" + name, nil
		},
	}
}

func (m *mockHandler) TagName() string { return m.name }

func (m *mockHandler) Render(ctx context.Context, vars VariableLookup, markup string) (string, error) {
	if m.renderFn != nil {
		return m.renderFn(ctx, vars, markup)
	}
	return "", nil
}

func TestRegistry_NewRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	require.NotNil(t, reg)
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
}

func TestRegistry_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		reg := NewRegistry(nil)
		require.NoError(t, reg.Register(newMockHandler("avatar")))
		assert.True(t, reg.Has("avatar"))
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("nil handler", func(t *testing.T) {
		reg := NewRegistry(nil)
		err := reg.Register(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilHandler)
	})

	t.Run("empty tag name", func(t *testing.T) {
		reg := NewRegistry(nil)
		err := reg.Register(newMockHandler(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyTagName)
	})

	t.Run("first registration wins", func(t *testing.T) {
		reg := NewRegistry(nil)
		first := newMockHandler("avatar")
		require.NoError(t, reg.Register(first))

		err := reg.Register(newMockHandler("avatar"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgHandlerAlreadyExists)
		assert.Contains(t, err.Error(), "avatar")

		got, ok := reg.Get("avatar")
		require.True(t, ok)
		assert.Same(t, first, got)
	})
}

func TestRegistry_MustRegister(t *testing.T) {
	reg := NewRegistry(nil)
	assert.NotPanics(t, func() { reg.MustRegister(newMockHandler("a")) })
	assert.Panics(t, func() { reg.MustRegister(newMockHandler("a")) })
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustRegister(newMockHandler("avatar"))

	h, ok := reg.Get("avatar")
	require.True(t, ok)
	assert.Equal(t, "avatar", h.TagName())

	h, ok = reg.Get("gravatar")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustRegister(newMockHandler("zeta"))
	reg.MustRegister(newMockHandler("avatar"))
	reg.MustRegister(newMockHandler("mention"))

	assert.Equal(t, []string{"avatar", "mention", "zeta"}, reg.List())
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	reg := NewRegistry(nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Register(newMockHandler("contested")); err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount)
	assert.Equal(t, 1, reg.Count())
}

func TestRegistryError_Error(t *testing.T) {
	t.Run("with tag name", func(t *testing.T) {
		err := NewRegistryError(ErrMsgHandlerAlreadyExists, "avatar")
		assert.Equal(t, ErrMsgHandlerAlreadyExists+": avatar", err.Error())
	})

	t.Run("without tag name", func(t *testing.T) {
		err := NewRegistryError(ErrMsgNilHandler, "")
		assert.Equal(t, ErrMsgNilHandler, err.Error())
	})
}
