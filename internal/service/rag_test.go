package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/settings"
	"github.com/xxxsen/ragway/internal/vecstore"
)

type fakeEmbedder struct {
	out []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake"
}

func testTemplates() settings.Templates {
	return settings.Templates{
		Context:      "CTX {prompt} | {content_list}",
		SearchFailed: "FAIL {prompt}",
		NoResults:    "EMPTY {prompt}",
		NoIndex:      "NOIDX {prompt}",
	}
}

func chatSnapshot(vec *vecstore.Client, embedder *fakeEmbedder) *settings.Snapshot {
	return &settings.Snapshot{
		Embedder:  embedder,
		Vec:       vec,
		Templates: testTemplates(),
	}
}

func TestBuildChatContext_FullRetrieval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		io.WriteString(w, `{"result":[
			{"id":1,"score":0.9,"payload":{"title":"Widget","url":"http://x/widget"}},
			{"id":2,"score":0.8,"payload":{}}
		]}`)
	}))
	defer srv.Close()

	snap := chatSnapshot(vecstore.NewWithBaseURL(srv.URL), &fakeEmbedder{out: []float32{0.1}})
	got := buildChatContext(context.Background(), snap, "content", "q?", renderContentHit)
	require.Equal(t, "CTX q? | - Widget: http://x/widget\n- No title: No url", got)
}

func TestBuildChatContext_MissingCollectionUsesNoIndexTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	snap := chatSnapshot(vecstore.NewWithBaseURL(srv.URL), &fakeEmbedder{out: []float32{0.1}})
	got := buildChatContext(context.Background(), snap, "ghost", "q?", renderContentHit)
	require.Equal(t, "NOIDX q?", got)
}

func TestBuildChatContext_ProbeErrorUsesSearchFailedTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	snap := chatSnapshot(vecstore.NewWithBaseURL(srv.URL), &fakeEmbedder{out: []float32{0.1}})
	got := buildChatContext(context.Background(), snap, "content", "q?", renderContentHit)
	require.Equal(t, "FAIL q?", got)
}

func TestBuildChatContext_EmbedFailureUsesSearchFailedTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	snap := chatSnapshot(vecstore.NewWithBaseURL(srv.URL), &fakeEmbedder{err: errors.New("model offline")})
	got := buildChatContext(context.Background(), snap, "content", "q?", renderContentHit)
	require.Equal(t, "FAIL q?", got)
}

func TestBuildChatContext_NoHitsUsesNoResultsTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		io.WriteString(w, `{"result":[]}`)
	}))
	defer srv.Close()

	snap := chatSnapshot(vecstore.NewWithBaseURL(srv.URL), &fakeEmbedder{out: []float32{0.1}})
	got := buildChatContext(context.Background(), snap, "content", "q?", renderContentHit)
	require.Equal(t, "EMPTY q?", got)
}

func TestRenderProductHit(t *testing.T) {
	require.Equal(t, "- Widget (http://x)", renderProductHit(map[string]interface{}{"title": "Widget", "url": "http://x"}))
	require.Equal(t, "- No Title (No URL)", renderProductHit(nil))
}
