package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremita/stremita/pkg/logger"
)

const knabenFixture = `<html><body><table class="table"><tbody>
<tr>
  <td>TV</td>
  <td><a title="detail">Show.S01.ITA.1080p.WEB-DL</a></td>
  <td>4.2 GiB</td>
  <td>today</td>
  <td>120</td>
  <td><a href="magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=show">magnet</a></td>
</tr>
<tr>
  <td>TV</td>
  <td><a title="detail">Show.S01.1080p.WEB-DL</a></td>
  <td>4.0 GiB</td>
  <td>today</td>
  <td>300</td>
  <td><a href="magnet:?xt=urn:btih:89abcdef0123456789abcdef0123456789abcdef&dn=show">magnet</a></td>
</tr>
<tr>
  <td>XXX</td>
  <td><a title="detail">Junk.ITA.1080p</a></td>
  <td>1.0 GiB</td>
  <td>today</td>
  <td>50</td>
  <td><a href="magnet:?xt=urn:btih:aaaa6789abcdef0123456789abcdef0123456789&dn=junk">magnet</a></td>
</tr>
</tbody></table></body></html>`

func newKnabenForTest(t *testing.T, handler http.Handler) (*Knaben, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Knaben{
		baseURL:    server.URL,
		httpClient: server.Client(),
		logger:     logger.New(),
	}, server
}

func TestKnabenSearch(t *testing.T) {
	knaben, _ := newKnabenForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only page 1 carries rows; an empty page 2 stops pagination.
		if r.URL.Path == "/search/Show S01/0/1/" {
			fmt.Fprint(w, knabenFixture)
			return
		}
		fmt.Fprint(w, "<html><body><table class=\"table\"><tbody></tbody></table></body></html>")
	}))

	results, err := knaben.Search(context.Background(), "Show S01", 0)
	require.NoError(t, err)

	// The non-Italian row and the adult row are dropped.
	require.Len(t, results, 1)
	assert.Equal(t, "Show.S01.ITA.1080p.WEB-DL", results[0].Title)
	assert.Equal(t, "Knaben", results[0].Source)
	assert.Equal(t, 120, results[0].Seeders)
	assert.InDelta(t, 4.2*1024*1024*1024, float64(results[0].SizeBytes), 1e6)
	assert.Contains(t, results[0].MagnetURI, "btih:0123456789abcdef")
}

func TestKnabenSearchServerError(t *testing.T) {
	knaben, _ := newKnabenForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := knaben.Search(context.Background(), "Show S01", 0)
	assert.Error(t, err)
}

const corsaroFixture = `<html><body><table><tbody>
<tr>
  <td><a href="/t/1">Film.2020.ITA.1080p</a></td>
  <td>8.1 GB</td>
  <td>today</td>
  <td>44</td>
  <td><a href="magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567">magnet</a></td>
</tr>
<tr>
  <td><a href="/t/2">Film.2019.ITA.720p</a></td>
  <td>2.0 GB</td>
  <td>today</td>
  <td>10</td>
  <td><a href="magnet:?xt=urn:btih:89abcdef0123456789abcdef0123456789abcdef">magnet</a></td>
</tr>
</tbody></table></body></html>`

func TestCorsaroSearchYearFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, corsaroFixture)
	}))
	defer server.Close()

	corsaro := &Corsaro{baseURL: server.URL, httpClient: server.Client(), logger: logger.New()}

	results, err := corsaro.Search(context.Background(), "Film", 2020)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Film.2020.ITA.1080p", results[0].Title)
	assert.Equal(t, "CorsaroNero", results[0].Source)
	assert.True(t, corsaro.Local())
}

func TestIsItalianFriendly(t *testing.T) {
	assert.True(t, isItalianFriendly("Show.S01.ITA.1080p"))
	assert.True(t, isItalianFriendly("Show S01 iTALiAN WEB-DL"))
	assert.True(t, isItalianFriendly("Show.S01.MULTI.1080p"))
	assert.True(t, isItalianFriendly("Show.S01.SUB-ITA"))
	assert.False(t, isItalianFriendly("Show.S01.1080p.WEB-DL"))
	assert.False(t, isItalianFriendly("Digital.Fortress.1080p"))
}

func TestParseSizeText(t *testing.T) {
	assert.Equal(t, int64(1073741824), parseSizeText("1 GiB"))
	assert.InDelta(t, 1.4e9, float64(parseSizeText("1,4 GB")), 1e6)
	assert.Equal(t, int64(0), parseSizeText("n/a"))
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "L amica geniale S01", cleanQuery("L'amica geniale: S01"))
	assert.Equal(t, "Show S01", cleanQuery("  Show   S01  "))
}
