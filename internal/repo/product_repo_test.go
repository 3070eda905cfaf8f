package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/model"
	"github.com/xxxsen/ragway/internal/pkg/timeutil"
	"github.com/xxxsen/ragway/internal/repo"
)

func TestProductRepoUpsertOverwrites(t *testing.T) {
	db, cleanup := openTestDB(t)
	defer cleanup()

	products := repo.NewProductRepo(db)
	const id = int64(920001)
	defer func() {
		_, _ = db.Exec(`DELETE FROM products WHERE id = $1`, id)
	}()

	first := &model.Product{
		ID:          id,
		Title:       "Widget",
		Description: "v1",
		Variations:  "[]",
		Attributes:  "[]",
		URL:         "http://shop/widget",
		Mtime:       timeutil.NowUnix(),
	}
	require.NoError(t, products.Upsert(context.Background(), first))

	second := *first
	second.Description = "v2"
	require.NoError(t, products.Upsert(context.Background(), &second))

	all, err := products.ListAll(context.Background())
	require.NoError(t, err)
	var found *model.Product
	for i := range all {
		if all[i].ID == id {
			found = &all[i]
			break
		}
	}
	require.NotNil(t, found)
	require.Equal(t, "v2", found.Description)
	require.Equal(t, "http://shop/widget", found.URL)
}
