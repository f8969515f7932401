//go:build integration

package avatar

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStorage, string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("avatar_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := NewPostgresStorage(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
	})
	require.NoError(t, err, "failed to create postgres storage")

	cleanup := func() {
		if storage != nil {
			_ = storage.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return storage, connStr, cleanup
}

func TestPostgres_E2E_PageLifecycle(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		page := &StoredPage{
			Name:      "team.md",
			Source:    "---\nauthor: hubot\n---\n{% avatar user=page.author %}",
			CreatedBy: "hubot",
		}
		require.NoError(t, storage.Save(ctx, page))
		assert.NotEmpty(t, page.ID)
		assert.Equal(t, 1, page.Version)
		assert.False(t, page.CreatedAt.IsZero())
	})

	t.Run("Get", func(t *testing.T) {
		page, err := storage.Get(ctx, "team.md")
		require.NoError(t, err)
		assert.Equal(t, "team.md", page.Name)
		assert.Equal(t, "hubot", page.CreatedBy)
		assert.Contains(t, page.Source, "avatar user=page.author")
	})

	t.Run("NewVersion", func(t *testing.T) {
		page := &StoredPage{Name: "team.md", Source: "{% avatar hubot2 %}"}
		require.NoError(t, storage.Save(ctx, page))
		assert.Equal(t, 2, page.Version)

		latest, err := storage.Get(ctx, "team.md")
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Version)
		assert.Empty(t, latest.CreatedBy)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, storage.Save(ctx, &StoredPage{Name: "about.md", Source: "about"}))

		pages, err := storage.List(ctx)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "about.md", pages[0].Name)
		assert.Equal(t, "team.md", pages[1].Name)
		assert.Equal(t, 2, pages[1].Version)
	})

	t.Run("RenderStored", func(t *testing.T) {
		out, err := MustNew(WithMarkdown(false)).RenderStored(ctx, storage, "team.md", nil, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "https://avatars0.githubusercontent.com/hubot2?v=3&amp;s=40")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "about.md"))

		exists, err := storage.Exists(ctx, "about.md")
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, storage.Delete(ctx, "about.md"), ErrPageNotFound)
		_, err = storage.Get(ctx, "about.md")
		assert.ErrorIs(t, err, ErrPageNotFound)
	})
}

func TestPostgres_E2E_ConcurrentSave(t *testing.T) {
	storage, _, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	saved := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := storage.Save(ctx, &StoredPage{Name: "busy.md", Source: "x"}); err == nil {
				mu.Lock()
				saved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	latest, err := storage.Get(ctx, "busy.md")
	require.NoError(t, err)
	assert.Equal(t, saved, latest.Version)
}

func TestPostgres_E2E_Driver(t *testing.T) {
	storage, connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, &StoredPage{Name: "index.html", Source: "{% avatar hubot %}"}))

	opened, err := OpenStorage(StorageDriverNamePostgres, connStr)
	require.NoError(t, err)
	defer opened.Close()

	exists, err := opened.Exists(ctx, "index.html")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.Close())
	assert.Error(t, storage.Close())
	_, err = storage.Get(ctx, "index.html")
	assert.Error(t, err)
}
