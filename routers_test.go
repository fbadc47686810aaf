package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := newTestStore(t)
	renderer := NewRenderer()
	feed := NewFeedProvider(store, renderer, "Test Blog", "http://example.com")
	server := NewServer(0, store, renderer, feed)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestListPosts(t *testing.T) {
	ts := newTestServer(t)

	var summaries []postSummary
	resp := getJSON(t, ts.URL+"/posts", &summaries)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, summaries, 2)
	assert.Equal(t, "var-keyword", summaries[0].Slug)
	assert.Equal(t, "readonly-structs", summaries[1].Slug)
	assert.NotEmpty(t, summaries[0].Excerpt)
}

func TestListPostsFiltered(t *testing.T) {
	ts := newTestServer(t)

	t.Run("by tag", func(t *testing.T) {
		var summaries []postSummary
		getJSON(t, ts.URL+"/posts?tag=style", &summaries)
		require.Len(t, summaries, 1)
		assert.Equal(t, "var-keyword", summaries[0].Slug)
	})

	t.Run("by category", func(t *testing.T) {
		var summaries []postSummary
		getJSON(t, ts.URL+"/posts?category=Coding", &summaries)
		assert.Len(t, summaries, 2)
	})

	t.Run("no match", func(t *testing.T) {
		var summaries []postSummary
		getJSON(t, ts.URL+"/posts?tag=gardening", &summaries)
		assert.Empty(t, summaries)
	})
}

func TestGetPost(t *testing.T) {
	ts := newTestServer(t)

	var detail postDetail
	resp := getJSON(t, ts.URL+"/posts/var-keyword", &detail)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "To var or not to var", detail.Title)
	assert.Equal(t, "post", detail.Layout)
	assert.Contains(t, detail.Body, "## Heading")
	assert.Contains(t, detail.HTML, "<h2>Heading</h2>")
	assert.NotEmpty(t, detail.Excerpt)
	assert.Equal(t, []string{"Coding", "C#"}, detail.Categories)
	assert.Equal(t, []string{"c#", "style"}, detail.Tags)
}

func TestGetPostNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFacetsAndReport(t *testing.T) {
	ts := newTestServer(t)

	t.Run("categories", func(t *testing.T) {
		var facets []FacetCount
		getJSON(t, ts.URL+"/categories", &facets)
		assert.Equal(t, []FacetCount{
			{Name: "C#", Count: 1},
			{Name: "Coding", Count: 2},
		}, facets)
	})

	t.Run("tags", func(t *testing.T) {
		var facets []FacetCount
		getJSON(t, ts.URL+"/tags", &facets)
		require.Len(t, facets, 3)
		assert.Equal(t, FacetCount{Name: "c#", Count: 2}, facets[0])
	})

	t.Run("report", func(t *testing.T) {
		var failures []LoadFailure
		getJSON(t, ts.URL+"/report", &failures)
		require.Len(t, failures, 1)
		assert.Equal(t, "broken.md", failures[0].File)
	})
}

func TestFeedEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/feed")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Contains(t, string(buf[:n]), "<?xml")
}
