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

const uindexBaseURL = "https://uindex.org"

// UIndex scrapes uindex.org. The index is mixed-language, but it is treated
// as a local provider because its Italian section is the reason it is here;
// non-Italian rows are kept only when they carry an Italian-friendly name.
type UIndex struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewUIndex() *UIndex {
	return &UIndex{
		baseURL:    uindexBaseURL,
		httpClient: httputil.NewHTTPClient(constants.ProviderTimeout),
		logger:     logger.New(),
	}
}

func (u *UIndex) Name() string { return "UIndex" }
func (u *UIndex) Local() bool  { return true }

func (u *UIndex) Search(ctx context.Context, query string, year int) ([]models.RawCandidate, error) {
	searchURL := fmt.Sprintf("%s/search.php?search=%s&c=0", u.baseURL, url.QueryEscape(cleanQuery(query)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch UIndex page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("UIndex returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UIndex page: %w", err)
	}

	var results []models.RawCandidate
	doc.Find("table.maintable tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		name := strings.TrimSpace(cells.Eq(1).Find("a").Last().Text())
		if name == "" {
			return
		}
		if isAdultContent(strings.TrimSpace(cells.Eq(0).Text()), name) {
			return
		}
		if year > 0 && !strings.Contains(name, strconv.Itoa(year)) {
			return
		}

		magnet, ok := row.Find(`a[href^="magnet:?"]`).Attr("href")
		if !ok {
			return
		}

		seeders, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(4).Text()))
		results = append(results, models.RawCandidate{
			Title:     name,
			MagnetURI: magnet,
			SizeBytes: parseSizeText(cells.Eq(3).Text()),
			Seeders:   seeders,
			Source:    u.Name(),
		})
	})

	u.logger.Debugf("[UIndex] found %d candidates for query: %s", len(results), query)
	return results, nil
}
