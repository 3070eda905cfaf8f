package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/model"
	"github.com/xxxsen/ragway/internal/pkg/timeutil"
	"github.com/xxxsen/ragway/internal/repo"
)

func TestEmbeddingCacheRepoRoundTrip(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	cache := repo.NewEmbeddingCacheRepo(db)
	hash := "test-cache-hash-roundtrip"
	defer func() {
		_, _ = db.Exec(`DELETE FROM embedding_cache WHERE content_hash = $1`, hash)
	}()

	_, found, err := cache.Get(context.Background(), "m1", "RETRIEVAL_QUERY", hash)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, cache.Save(context.Background(), &model.EmbeddingCache{
		ModelName:   "m1",
		TaskType:    "RETRIEVAL_QUERY",
		ContentHash: hash,
		Embedding:   []float32{0.25, 0.5, 0.75},
		Ctime:       timeutil.NowUnix(),
	}))

	emb, found, err := cache.Get(context.Background(), "m1", "RETRIEVAL_QUERY", hash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []float32{0.25, 0.5, 0.75}, emb)

	// same hash under another task type is a separate entry
	_, found, err = cache.Get(context.Background(), "m1", "RETRIEVAL_DOCUMENT", hash)
	require.NoError(t, err)
	require.False(t, found)
}

func TestEmbeddingCacheRepoDeleteBefore(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	cache := repo.NewEmbeddingCacheRepo(db)
	hash := "test-cache-hash-cleanup"
	defer func() {
		_, _ = db.Exec(`DELETE FROM embedding_cache WHERE content_hash = $1`, hash)
	}()

	require.NoError(t, cache.Save(context.Background(), &model.EmbeddingCache{
		ModelName:   "m1",
		TaskType:    "RETRIEVAL_QUERY",
		ContentHash: hash,
		Embedding:   []float32{0.1},
		Ctime:       100,
	}))

	deleted, err := cache.DeleteBefore(context.Background(), 101)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	_, found, err := cache.Get(context.Background(), "m1", "RETRIEVAL_QUERY", hash)
	require.NoError(t, err)
	require.False(t, found)
}
