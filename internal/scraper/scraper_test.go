package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const ogPage = `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="The Dispossessed" />
<meta property="og:description" content="An ambiguous utopia." />
<meta property="og:image" content="https://example.com/cover.jpg" />
<meta property="books:author" content="Ursula K. Le Guin" />
</head><body></body></html>`

const goodreadsPage = `<!DOCTYPE html>
<html><head><title>Dune by Frank Herbert</title></head>
<body>
<h1 id="bookTitle">  Dune
</h1>
<a class="authorName" href="/author/1"><span>Frank Herbert</span></a>
<a class="bookPageGenreLink" href="/genres/science-fiction">Science Fiction</a>
<a class="bookPageGenreLink" href="/genres/classics">Classics</a>
<a class="bookPageGenreLink" href="/genres/fantasy">Fantasy</a>
<a class="bookPageGenreLink" href="/genres/fiction">Fiction</a>
<img id="coverImage" src="https://example.com/dune.jpg" />
</body></html>`

func parseString(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestParseOpenGraphMeta(t *testing.T) {
	info := Parse(parseString(t, ogPage), "https://example.com/book")

	assert.Equal(t, "The Dispossessed", info.Title)
	assert.Equal(t, "An ambiguous utopia.", info.Description)
	assert.Equal(t, "https://example.com/cover.jpg", info.ImageURL)
	assert.Equal(t, []string{"Ursula K. Le Guin"}, info.Authors)
	assert.Equal(t, "https://example.com/book", info.SourceURL)
}

func TestParseGoodreadsMarkup(t *testing.T) {
	info := Parse(parseString(t, goodreadsPage), "https://www.goodreads.com/book/show/44767458")

	assert.Equal(t, "Dune", info.Title)
	assert.Equal(t, []string{"Frank Herbert"}, info.Authors)
	// Genres are capped at the first three.
	assert.Equal(t, []string{"Science Fiction", "Classics", "Fantasy"}, info.Genres)
	assert.Equal(t, "https://example.com/dune.jpg", info.ImageURL)
}

func TestParseUnrecognizedPageKeepsSourceURL(t *testing.T) {
	info := Parse(parseString(t, `<html><head><title>Nothing here</title></head><body></body></html>`), "https://example.com/blank")

	assert.Equal(t, "https://example.com/blank", info.SourceURL)
	assert.Equal(t, "Nothing here", info.Title)
	assert.Empty(t, info.Authors)
	assert.Empty(t, info.Genres)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ogPage))
	}))
	defer srv.Close()

	s := NewScraper(5 * time.Second)
	info, err := s.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "The Dispossessed", info.Title)
	assert.Equal(t, srv.URL, info.SourceURL)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraper(5 * time.Second)
	_, err := s.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
