// Package realdebrid implements the Real-Debrid REST client used by the
// cache resolver. The API distinguishes auth, permission, availability and
// rate-limit failures by status code; those are mapped to sentinel errors so
// callers can react per condition.
package realdebrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/pkg/httputil"
	"github.com/stremita/stremita/pkg/logger"
)

const apiBaseURL = "https://api.real-debrid.com/rest/1.0"

var (
	ErrInvalidToken       = errors.New("real-debrid token is invalid")
	ErrPermissionDenied   = errors.New("real-debrid account is locked or lacks permission")
	ErrRateLimited        = errors.New("real-debrid rate limit exceeded")
	ErrServiceUnavailable = errors.New("real-debrid service unavailable")
)

// TorrentStatusDownloaded is the only status the resolver accepts; anything
// else is a cache miss.
const TorrentStatusDownloaded = "downloaded"

// TorrentStatusWaitingSelection means the torrent needs SelectFiles before
// it reports a final status.
const TorrentStatusWaitingSelection = "waiting_files_selection"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

type AddedMagnet struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

type TorrentFile struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"`
}

type TorrentInfo struct {
	ID       string        `json:"id"`
	Filename string        `json:"filename"`
	Status   string        `json:"status"`
	Bytes    int64         `json:"bytes"`
	Files    []TorrentFile `json:"files"`
	Links    []string      `json:"links"`
	Added    string        `json:"added"`
}

type UnrestrictedLink struct {
	Download string `json:"download"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    apiBaseURL,
		httpClient: httputil.NewHTTPClient(constants.DebridTimeout),
		logger:     logger.New(),
	}
}

func (c *Client) AddMagnet(ctx context.Context, magnet string) (*AddedMagnet, error) {
	var added AddedMagnet
	form := url.Values{"magnet": {magnet}}
	if err := c.request(ctx, http.MethodPost, "/torrents/addMagnet", form, &added); err != nil {
		return nil, err
	}
	c.logger.Debugf("[RealDebrid] magnet submitted, torrent id %s", added.ID)
	return &added, nil
}

func (c *Client) GetTorrentInfo(ctx context.Context, torrentID string) (*TorrentInfo, error) {
	var info TorrentInfo
	if err := c.request(ctx, http.MethodGet, "/torrents/info/"+torrentID, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SelectFiles marks the given comma-separated file IDs (or "all") for
// download within a torrent.
func (c *Client) SelectFiles(ctx context.Context, torrentID, fileIDs string) error {
	form := url.Values{"files": {fileIDs}}
	return c.request(ctx, http.MethodPost, "/torrents/selectFiles/"+torrentID, form, nil)
}

func (c *Client) UnrestrictLink(ctx context.Context, link string) (*UnrestrictedLink, error) {
	var unrestricted UnrestrictedLink
	form := url.Values{"link": {link}}
	if err := c.request(ctx, http.MethodPost, "/unrestrict/link", form, &unrestricted); err != nil {
		return nil, err
	}
	return &unrestricted, nil
}

func (c *Client) DeleteTorrent(ctx context.Context, torrentID string) error {
	return c.request(ctx, http.MethodDelete, "/torrents/delete/"+torrentID, nil, nil)
}

// ListTorrents returns the torrents currently held by the account. Used by
// the cleanup job to delete stale submissions.
func (c *Client) ListTorrents(ctx context.Context) ([]TorrentInfo, error) {
	var torrents []TorrentInfo
	if err := c.request(ctx, http.MethodGet, "/torrents", nil, &torrents); err != nil {
		return nil, err
	}
	return torrents, nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("real-debrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp.StatusCode, endpoint); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode real-debrid response: %w", err)
	}
	return nil
}

func (c *Client) checkStatus(status int, endpoint string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrInvalidToken
	case status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	default:
		return fmt.Errorf("real-debrid %s returned status %d", endpoint, status)
	}
}
