package vecstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureCollection_SkipsCreateWhenPresent(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/content":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/content":
			created = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	require.NoError(t, client.EnsureCollection(context.Background(), "content", 4096, ""))
	require.False(t, created)
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	var createBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/content":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/content":
			data, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(data, &createBody))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	require.NoError(t, client.EnsureCollection(context.Background(), "content", 4096, ""))
	vectors, ok := createBody["vectors"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, float64(4096), vectors["size"])
	require.Equal(t, "Cosine", vectors["distance"])
}

func TestEnsureCollection_ConflictOnCreateIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	require.NoError(t, client.EnsureCollection(context.Background(), "content", 512, "Cosine"))
}

func TestSearch_MissingCollectionReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	hits, err := client.Search(context.Background(), "nothere", []float32{0.1}, 5)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestSearch_ParsesHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, "/collections/content/points/search", r.URL.Path)
		var body map[string]interface{}
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		require.Equal(t, float64(5), body["limit"])
		require.Equal(t, true, body["with_payload"])
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"result":[{"id":7,"score":0.91,"payload":{"title":"Widget"}}]}`)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	hits, err := client.Search(context.Background(), "content", []float32{0.1, 0.2}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, int64(7), hits[0].ID)
	require.Equal(t, 0.91, hits[0].Score)
	require.Equal(t, "Widget", hits[0].Payload["title"])
}

func TestUpsert_ErrorStatusFailsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	err := client.Upsert(context.Background(), "content", []Point{{ID: 1, Vector: []float32{0.1}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	client := NewWithBaseURL("http://127.0.0.1:1")
	require.NoError(t, client.Upsert(context.Background(), "content", nil))
}

func TestDeletePoints(t *testing.T) {
	var gotIDs []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/content/points/delete", r.URL.Path)
		var body struct {
			Points []int64 `json:"points"`
		}
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		gotIDs = body.Points
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	require.NoError(t, client.DeletePoints(context.Background(), "content", []int64{3, 9}))
	require.Equal(t, []int64{3, 9}, gotIDs)
}

func TestHealth_CountsCollections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections", r.URL.Path)
		io.WriteString(w, `{"result":{"collections":[{"name":"content"},{"name":"products"}]}}`)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	count, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
