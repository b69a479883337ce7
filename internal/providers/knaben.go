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
	knabenBaseURL  = "https://knaben.org"
	knabenMaxPages = 2

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Knaben scrapes the knaben.org meta-index. The index is international, so
// results are gated on Italian-friendly release names before being returned.
type Knaben struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewKnaben() *Knaben {
	return &Knaben{
		baseURL:    knabenBaseURL,
		httpClient: httputil.NewHTTPClient(constants.ProviderTimeout),
		logger:     logger.New(),
	}
}

func (k *Knaben) Name() string { return "Knaben" }
func (k *Knaben) Local() bool  { return false }

func (k *Knaben) Search(ctx context.Context, query string, year int) ([]models.RawCandidate, error) {
	query = cleanQuery(query)

	var results []models.RawCandidate
	for page := 1; page <= knabenMaxPages; page++ {
		// Path layout: /search/{query}/0/{page}/ with 0 = all categories.
		searchURL := fmt.Sprintf("%s/search/%s/0/%d/", k.baseURL, url.PathEscape(query), page)

		pageResults, err := k.scrapePage(ctx, searchURL, year)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			k.logger.Warnf("[Knaben] page %d failed: %v", page, err)
			break
		}
		if len(pageResults) == 0 {
			break
		}
		results = append(results, pageResults...)
	}

	k.logger.Debugf("[Knaben] found %d candidates for query: %s", len(results), query)
	return results, nil
}

func (k *Knaben) scrapePage(ctx context.Context, searchURL string, year int) ([]models.RawCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", k.baseURL+"/")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Knaben page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Knaben returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Knaben page: %w", err)
	}

	var results []models.RawCandidate
	doc.Find("table.table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		category := strings.TrimSpace(cells.Eq(0).Text())
		name := strings.TrimSpace(cells.Eq(1).Find("a[title]").First().Text())
		if name == "" {
			return
		}
		if isAdultContent(category, name) {
			return
		}
		if !isItalianFriendly(name) {
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
			SizeBytes: parseSizeText(cells.Eq(2).Text()),
			Seeders:   seeders,
			Source:    k.Name(),
		})
	})

	return results, nil
}
