package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	model string
	calls int
	out   []float32
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.out, nil
}

func (c *countingEmbedder) ModelName() string {
	return c.model
}

func TestLruEmbedder_SecondCallHitsCache(t *testing.T) {
	inner := &countingEmbedder{model: "m1", out: []float32{0.5, 0.6}}
	wrapped := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	first, err := wrapped.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 0.6}, first)

	second, err := wrapped.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)
}

func TestLruEmbedder_TaskTypeIsPartOfKey(t *testing.T) {
	inner := &countingEmbedder{model: "m1", out: []float32{0.5}}
	wrapped := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := wrapped.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	_, err = wrapped.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLruEmbedder_CachedResultIsIsolated(t *testing.T) {
	inner := &countingEmbedder{model: "m1", out: []float32{0.5, 0.6}}
	wrapped := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	first, err := wrapped.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	first[0] = 99

	second, err := wrapped.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, float32(0.5), second[0])
}

func TestWrapLruCacheToEmbedder_DisabledPassthrough(t *testing.T) {
	inner := &countingEmbedder{model: "m1", out: []float32{1}}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
}
