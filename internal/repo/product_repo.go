package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/ragway/internal/model"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Upsert keeps the remote catalog id as primary key so re-sync overwrites
// in place.
func (r *ProductRepo) Upsert(ctx context.Context, product *model.Product) error {
	const query = `
		INSERT INTO products (id, title, description, variations, attributes, url, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			variations = EXCLUDED.variations,
			attributes = EXCLUDED.attributes,
			url = EXCLUDED.url,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Title,
		product.Description,
		product.Variations,
		product.Attributes,
		product.URL,
		product.Mtime,
	)
	return err
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	where := map[string]interface{}{"_orderby": "id asc"}
	columns := []string{"id", "title", "description", "variations", "attributes", "url", "mtime"}
	sqlStr, args, err := builder.BuildSelect("products", where, columns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := make([]model.Product, 0)
	for rows.Next() {
		var item model.Product
		var description, variations, attributes, url sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &description, &variations, &attributes, &url, &item.Mtime); err != nil {
			return nil, err
		}
		item.Description = description.String
		item.Variations = variations.String
		item.Attributes = attributes.String
		item.URL = url.String
		products = append(products, item)
	}
	return products, rows.Err()
}
