package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
	"github.com/xxxsen/ragway/internal/repo"
)

func TestSettingsRepoSetGetDelete(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	settings := repo.NewSettingsRepo(db)
	key := "test_settings_repo_key"
	value := "http://ollama:11434"

	_, err := settings.Get(context.Background(), key)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, settings.SetAll(context.Background(), map[string]*string{key: &value}))
	item, err := settings.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, item.Value)
	require.Equal(t, value, *item.Value)

	updated := "http://other:11434"
	require.NoError(t, settings.SetAll(context.Background(), map[string]*string{key: &updated}))
	item, err = settings.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, updated, *item.Value)

	require.NoError(t, settings.Delete(context.Background(), key))
	require.ErrorIs(t, settings.Delete(context.Background(), key), appErr.ErrNotFound)
}

func TestSettingsRepoListAll(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	settings := repo.NewSettingsRepo(db)
	a := "1"
	b := "2"
	require.NoError(t, settings.SetAll(context.Background(), map[string]*string{
		"test_list_b": &b,
		"test_list_a": &a,
	}))
	defer func() {
		_ = settings.Delete(context.Background(), "test_list_a")
		_ = settings.Delete(context.Background(), "test_list_b")
	}()

	items, err := settings.ListAll(context.Background())
	require.NoError(t, err)
	got := map[string]string{}
	for _, item := range items {
		if item.Value != nil {
			got[item.Key] = *item.Value
		}
	}
	require.Equal(t, "1", got["test_list_a"])
	require.Equal(t, "2", got["test_list_b"])
}
