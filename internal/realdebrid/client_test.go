package realdebrid

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

func newClientForTest(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{
		apiKey:     "test-key",
		baseURL:    server.URL,
		httpClient: server.Client(),
		logger:     logger.New(),
	}
}

func TestAddMagnet(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/torrents/addMagnet", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("magnet"), "btih")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"ABC123","uri":"/torrents/info/ABC123"}`)
	}))

	added, err := client.AddMagnet(context.Background(), "magnet:?xt=urn:btih:0123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", added.ID)
}

func TestGetTorrentInfo(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/torrents/info/ABC123", r.URL.Path)
		fmt.Fprint(w, `{
			"id": "ABC123",
			"status": "downloaded",
			"files": [
				{"id": 1, "path": "/show.s01e05.mkv", "bytes": 734003200, "selected": 1},
				{"id": 2, "path": "/sample.mkv", "bytes": 10485760, "selected": 0}
			],
			"links": ["https://real-debrid.com/d/XYZ"]
		}`)
	}))

	info, err := client.GetTorrentInfo(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, TorrentStatusDownloaded, info.Status)
	require.Len(t, info.Files, 2)
	assert.Equal(t, int64(734003200), info.Files[0].Bytes)
	assert.Equal(t, 1, info.Files[0].Selected)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidToken},
		{http.StatusForbidden, ErrPermissionDenied},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusServiceUnavailable, ErrServiceUnavailable},
	}

	for _, tc := range cases {
		client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := client.GetTorrentInfo(context.Background(), "ABC123")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err := client.GetTorrentInfo(context.Background(), "ABC123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrServiceUnavailable)
}

func TestSelectFilesAndUnrestrict(t *testing.T) {
	client := newClientForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/torrents/selectFiles/ABC123":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "1,3", r.PostForm.Get("files"))
			w.WriteHeader(http.StatusNoContent)
		case "/unrestrict/link":
			fmt.Fprint(w, `{"download":"https://dl.example/file.mkv","filename":"file.mkv","filesize":734003200}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	require.NoError(t, client.SelectFiles(context.Background(), "ABC123", "1,3"))

	link, err := client.UnrestrictLink(context.Background(), "https://real-debrid.com/d/XYZ")
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example/file.mkv", link.Download)
	assert.Equal(t, int64(734003200), link.Filesize)
}
