package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Elastic, *[]recorded) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	e, err := NewElastic(Options{URL: srv.URL, Index: "blogs"})
	require.NoError(t, err)
	return e, &reqs
}

func TestElastic_IndexAndDelete(t *testing.T) {
	t.Parallel()

	e, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, e.IndexBlog(context.Background(), BlogDocument{ID: 7, Title: "Hello", Content: "World"}))
	require.NoError(t, e.DeleteBlog(context.Background(), 7), "missing document is not an error")

	require.Len(t, *reqs, 2)
	first := (*reqs)[0]
	assert.Equal(t, http.MethodPut, first.method)
	assert.Equal(t, "/blogs/_doc/7", first.path)

	var doc BlogDocument
	require.NoError(t, json.Unmarshal([]byte(first.body), &doc))
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, "/blogs/_doc/7", (*reqs)[1].path)
}

func TestElastic_SearchBlogs(t *testing.T) {
	t.Parallel()

	e, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`))
	})

	total, ids, err := e.SearchBlogs(context.Background(), "skin", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{3, 1}, ids)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/blogs/_search", (*reqs)[0].path)
	assert.True(t, strings.Contains((*reqs)[0].body, `"multi_match"`))
}

func TestElastic_ErrorStatus(t *testing.T) {
	t.Parallel()

	e, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	assert.Error(t, e.IndexBlog(context.Background(), BlogDocument{ID: 1}))
	_, _, err := e.SearchBlogs(context.Background(), "x", 0, 10)
	assert.Error(t, err)
}

func TestElastic_EnsureIndexCreatesWhenMissing(t *testing.T) {
	t.Parallel()

	e, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, e.EnsureIndex(context.Background()))
	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[1].method)
	assert.Contains(t, (*reqs)[1].body, `"mappings"`)
}
