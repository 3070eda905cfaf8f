package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func TestRecordPointPayload_MergesMetadataOverPayload(t *testing.T) {
	record := &model.ContentRecord{
		ID:             7,
		SourceID:       strPtr("sku-7"),
		CollectionName: "content",
		Payload:        json.RawMessage(`{"title":"Widget","source_id":"stale"}`),
	}
	payload := recordPointPayload(record)
	require.Equal(t, "Widget", payload["title"])
	require.Equal(t, "sku-7", payload["source_id"])
	require.Equal(t, "content", payload["collection_name"])
}

func TestRecordPointPayload_NonObjectPayload(t *testing.T) {
	record := &model.ContentRecord{
		ID:             3,
		CollectionName: "content",
		Payload:        json.RawMessage(`"just a string"`),
	}
	payload := recordPointPayload(record)
	require.Equal(t, "", payload["source_id"])
	require.Equal(t, "content", payload["collection_name"])
}

func TestSourceIDOf(t *testing.T) {
	require.Equal(t, "", sourceIDOf(&model.ContentRecord{}))
	require.Equal(t, "x", sourceIDOf(&model.ContentRecord{SourceID: strPtr("x")}))
}
