package scraper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Page Title</title></head><body>
<h1>Topic X Announced</h1>
<article>
<p>The first paragraph carries the core announcement details.</p>
<p>A second paragraph adds background on the product and its makers.</p>
<p>The third paragraph quotes the lead developer at length.</p>
<p>Subscribe to our newsletter for more stories like this.</p>
</article>
</body></html>`

func TestExtractArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, articleHTML)
	}))
	t.Cleanup(srv.Close)

	article, err := New(nil).ExtractArticle(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Topic X Announced", article.Title)
	assert.Contains(t, article.Content, "core announcement details")
	assert.Contains(t, article.Content, "lead developer")
	assert.NotContains(t, article.Content, "newsletter", "boilerplate lines are dropped")
}

func TestExtractArticle_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := New(nil).ExtractArticle(srv.URL)
	require.Error(t, err)
}

func TestCleanContent_BoundsLength(t *testing.T) {
	long := strings.Repeat("A paragraph with enough words to count as real text here.\n", 400)
	out := cleanContent(long)

	assert.LessOrEqual(t, len(out), 8000)
	assert.NotEmpty(t, out)
}

func TestCleanContent_DropsShortAndJunkLines(t *testing.T) {
	in := "ok\nThis paragraph is long enough to survive the filter.\nClick here to read more cookie policy"
	out := cleanContent(in)

	assert.Contains(t, out, "long enough to survive")
	assert.NotContains(t, out, "ok\n")
	assert.NotContains(t, out, "cookie")
}
