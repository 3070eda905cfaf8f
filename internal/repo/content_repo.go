package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/ragway/internal/model"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
)

type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) Add(ctx context.Context, record *model.ContentRecord) error {
	payload := record.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	const query = `
		INSERT INTO content_buffer (source_id, collection_name, payload, ctime)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	row := r.db.QueryRowContext(ctx, query, record.SourceID, record.CollectionName, []byte(payload), record.Ctime)
	return row.Scan(&record.ID)
}

func (r *ContentRepo) GetByID(ctx context.Context, id int64) (*model.ContentRecord, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("content_buffer", where, contentColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	record, err := scanContentRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListAll returns buffered records in insertion order; an empty collection
// filter returns every collection's records.
func (r *ContentRepo) ListAll(ctx context.Context, collectionName string) ([]model.ContentRecord, error) {
	where := map[string]interface{}{"_orderby": "id asc"}
	if collectionName != "" {
		where["collection_name"] = collectionName
	}
	sqlStr, args, err := builder.BuildSelect("content_buffer", where, contentColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.ContentRecord, 0)
	for rows.Next() {
		record, err := scanContentRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *ContentRepo) Delete(ctx context.Context, id int64) error {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildDelete("content_buffer", where)
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

func contentColumns() []string {
	return []string{"id", "source_id", "collection_name", "payload", "ctime"}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContentRecord(row rowScanner) (*model.ContentRecord, error) {
	var record model.ContentRecord
	var payload []byte
	if err := row.Scan(&record.ID, &record.SourceID, &record.CollectionName, &payload, &record.Ctime); err != nil {
		return nil, err
	}
	record.Payload = json.RawMessage(payload)
	return &record, nil
}
