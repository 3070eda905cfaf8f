package model

import "encoding/json"

// ContentRecord is one buffered record waiting to be embedded and synced
// into the vector index. Records are immutable after creation; the row id
// doubles as the vector point id downstream.
type ContentRecord struct {
	ID             int64           `json:"id"`
	SourceID       *string         `json:"source_id"`
	CollectionName string          `json:"collection_name"`
	Payload        json.RawMessage `json:"payload"`
	Ctime          int64           `json:"ctime"`
}
