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

const corsaroBaseURL = "https://ilcorsaronero.link"

// Corsaro scrapes il CorsaroNero, an Italian-only index. Every result is
// Italian by construction, so no language gating is applied.
type Corsaro struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewCorsaro() *Corsaro {
	return &Corsaro{
		baseURL:    corsaroBaseURL,
		httpClient: httputil.NewHTTPClient(constants.ProviderTimeout),
		logger:     logger.New(),
	}
}

func (c *Corsaro) Name() string { return "CorsaroNero" }
func (c *Corsaro) Local() bool  { return true }

func (c *Corsaro) Search(ctx context.Context, query string, year int) ([]models.RawCandidate, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(cleanQuery(query)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CorsaroNero page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CorsaroNero returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CorsaroNero page: %w", err)
	}

	var results []models.RawCandidate
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Find("a").First().Text())
		if name == "" {
			return
		}
		if year > 0 && !strings.Contains(name, strconv.Itoa(year)) {
			return
		}

		magnet, ok := row.Find(`a[href^="magnet:?"]`).Attr("href")
		if !ok {
			return
		}

		seeders, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(3).Text()))
		results = append(results, models.RawCandidate{
			Title:     name,
			MagnetURI: magnet,
			SizeBytes: parseSizeText(cells.Eq(1).Text()),
			Seeders:   seeders,
			Source:    c.Name(),
		})
	})

	c.logger.Debugf("[CorsaroNero] found %d candidates for query: %s", len(results), query)
	return results, nil
}
