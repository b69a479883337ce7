package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/pkg/httputil"
	"github.com/stremita/stremita/pkg/logger"
)

const (
	x1337BaseURL    = "https://1337x.to"
	x1337MaxResults = 5
)

// X1337 scrapes 1337x.to. Listing pages carry no magnet URI, so each kept
// row needs a second request to its detail page.
type X1337 struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewX1337() *X1337 {
	return &X1337{
		baseURL:    x1337BaseURL,
		httpClient: httputil.NewHTTPClient(constants.ProviderTimeout),
		logger:     logger.New(),
	}
}

func (x *X1337) Name() string { return "1337x" }
func (x *X1337) Local() bool  { return false }

type x1337Listing struct {
	name    string
	link    string
	seeders int
}

func (x *X1337) Search(ctx context.Context, query string, year int) ([]models.RawCandidate, error) {
	query = cleanQuery(query)

	searchURL := fmt.Sprintf("%s/sort-search/%s/seeders/desc/1/", x.baseURL, url.PathEscape(query))
	doc, err := x.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var listings []x1337Listing
	doc.Find("table.table-list tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		nameLink := row.Find(".name a").Eq(1)
		name := strings.TrimSpace(nameLink.Text())
		link, _ := nameLink.Attr("href")
		if name == "" || link == "" {
			return true
		}
		if !isItalianFriendly(name) {
			return true
		}
		if year > 0 && !strings.Contains(name, strconv.Itoa(year)) {
			return true
		}

		seeders, _ := strconv.Atoi(strings.TrimSpace(row.Find(".seeds").Text()))
		listings = append(listings, x1337Listing{name: name, link: link, seeders: seeders})
		return len(listings) < x1337MaxResults
	})

	var results []models.RawCandidate
	for _, listing := range listings {
		magnet, size, err := x.resolveMagnet(ctx, listing.link)
		if err != nil {
			x.logger.Debugf("[1337x] failed to resolve magnet for %s: %v", listing.name, err)
			continue
		}
		results = append(results, models.RawCandidate{
			Title:     listing.name,
			MagnetURI: magnet,
			SizeBytes: size,
			Seeders:   listing.seeders,
			Source:    x.Name(),
		})
	}

	x.logger.Debugf("[1337x] found %d candidates for query: %s", len(results), query)
	return results, nil
}

// resolveMagnet loads a torrent detail page and extracts its magnet URI and
// advertised size.
func (x *X1337) resolveMagnet(ctx context.Context, link string) (string, int64, error) {
	doc, err := x.fetchDocument(ctx, x.baseURL+link)
	if err != nil {
		return "", 0, err
	}

	magnet, ok := doc.Find(`a[href^="magnet:"]`).Attr("href")
	if !ok {
		return "", 0, fmt.Errorf("no magnet link on detail page")
	}

	var size int64
	doc.Find("ul.list li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(item.Find("strong").Text()), "total size") {
			size = parseSizeText(item.Find("span").Text())
			return false
		}
		return true
	})

	return magnet, size, nil
}

func (x *X1337) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch 1337x page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("1337x returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse 1337x page: %w", err)
	}
	return doc, nil
}
