package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/config"
	"github.com/xxxsen/ragway/internal/settings"
)

func TestManagerCurrent_DefaultsAndInvalidate(t *testing.T) {
	store, conn, cleanup := openTestStore(t)
	defer cleanup()

	manager := settings.NewManager(store, nil, config.EmbedCacheConfig{LruSize: 16, LruTTLSeconds: 60})

	snap, err := manager.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, settings.DefaultLlamaModel, snap.GenModel)
	require.Equal(t, settings.DefaultVectorSize, snap.VectorSize)
	require.Equal(t, settings.DefaultCollectionName, snap.DefaultCollection)
	require.Equal(t, settings.DefaultProductsCollection, snap.ProductsCollection)
	require.NotNil(t, snap.Embedder)
	require.NotNil(t, snap.Generator)
	require.NotNil(t, snap.Vec)

	// cached until invalidated
	again, err := manager.Current(context.Background())
	require.NoError(t, err)
	require.Same(t, snap, again)

	model := "mistral:latest"
	defer func() {
		_, _ = conn.Exec(`DELETE FROM settings WHERE key = $1`, settings.KeyLlamaModel)
	}()
	require.NoError(t, store.Set(context.Background(), map[string]*string{settings.KeyLlamaModel: &model}))

	// a stale snapshot stays active until invalidation
	stale, err := manager.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, settings.DefaultLlamaModel, stale.GenModel)

	manager.Invalidate()
	fresh, err := manager.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mistral:latest", fresh.GenModel)
}
