package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMultiDropsPersonHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/configuration":
			w.Write([]byte(`{"images": {"secure_base_url": "https://cdn.example.org/t/p/"}}`))
		case "/search/multi":
			assert.Equal(t, "matrix", r.URL.Query().Get("query"))
			w.Write([]byte(`{
				"page": 1,
				"total_pages": 1,
				"results": [
					{"id": 603, "media_type": "movie", "title": "The Matrix", "release_date": "1999-03-31", "poster_path": "/m.jpg", "overview": "A hacker."},
					{"id": 6384, "media_type": "person", "name": "Keanu Reeves"},
					{"id": 95396, "media_type": "tv", "name": "Severance", "first_air_date": "2022-02-18"}
				]
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page := client.SearchMulti(context.Background(), "matrix", 1)

	require.Len(t, page.Results, 2, "person hits must be filtered out")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	movie := page.Results[0]
	assert.Equal(t, int64(603), movie.TMDBID)
	assert.Equal(t, MediaTypeMovie, movie.MediaType)
	assert.Equal(t, "The Matrix", movie.Title)
	require.NotNil(t, movie.Year)
	assert.Equal(t, 1999, *movie.Year)
	require.NotNil(t, movie.PosterURL)
	assert.Equal(t, "https://cdn.example.org/t/p/w342/m.jpg", *movie.PosterURL)

	tv := page.Results[1]
	assert.Equal(t, MediaTypeTV, tv.MediaType)
	assert.Equal(t, "Severance", tv.Title)
	assert.Nil(t, tv.PosterURL)
}

func TestSearchDegradesToEmptyPageOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page := client.SearchMovies(context.Background(), "matrix", 3)

	assert.Empty(t, page.Results)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSearchByTypeDispatch(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"page": 1, "total_pages": 0, "results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	client.SearchByType(ctx, MediaTypeMovie, "q", 1)
	client.SearchByType(ctx, MediaTypeTV, "q", 1)
	client.SearchByType(ctx, "", "q", 1)

	assert.Equal(t, []string{"/search/movie", "/search/tv", "/search/multi"}, paths)
}
