package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/ragway/internal/model"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
)

type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (*model.Setting, error) {
	const query = `SELECT id, key, value FROM settings WHERE key = $1`
	row := r.db.QueryRowContext(ctx, query, key)
	var item model.Setting
	if err := row.Scan(&item.ID, &item.Key, &item.Value); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *SettingsRepo) ListAll(ctx context.Context) ([]model.Setting, error) {
	const query = `SELECT id, key, value FROM settings ORDER BY key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Setting, 0)
	for rows.Next() {
		var item model.Setting
		if err := rows.Scan(&item.ID, &item.Key, &item.Value); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetAll writes every pair in one transaction so a storage failure leaves
// the previous configuration intact.
func (r *SettingsRepo) SetAll(ctx context.Context, values map[string]*string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	where := map[string]interface{}{"key": key}
	sqlStr, args, err := builder.BuildDelete("settings", where)
	if err != nil {
		return err
	}
	sqlStr, args = finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
