package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/pkg/httputil"
	"github.com/stremita/stremita/pkg/logger"
)

// kitsuMappingURL serves a community-maintained kitsu-to-IMDB mapping used
// by the Stremio anime catalogs.
const kitsuMappingURL = "https://raw.githubusercontent.com/TheBeastLT/stremio-kitsu-anime/master/static/data/imdb_mapping.json"

type kitsuMapping struct {
	IMDBID      string `json:"imdb_id"`
	FromSeason  int    `json:"fromSeason"`
	FromEpisode int    `json:"fromEpisode"`
}

// kitsuResolver translates kitsu anime ids to IMDB ids. The mapping file is
// large, so it is fetched once and kept for the process lifetime.
type kitsuResolver struct {
	mappingURL string
	httpClient *http.Client
	logger     logger.Logger

	mu      sync.Mutex
	mapping map[string]kitsuMapping
}

func newKitsuResolver() *kitsuResolver {
	return &kitsuResolver{
		mappingURL: kitsuMappingURL,
		httpClient: httputil.NewHTTPClient(constants.SearchTimeout),
		logger:     logger.NewScoped("Kitsu"),
	}
}

func (k *kitsuResolver) resolve(ctx context.Context, kitsuID string) (kitsuMapping, error) {
	mapping, err := k.loadMapping(ctx)
	if err != nil {
		return kitsuMapping{}, err
	}

	entry, ok := mapping[kitsuID]
	if !ok || entry.IMDBID == "" {
		return kitsuMapping{}, fmt.Errorf("no IMDB mapping for kitsu id %s", kitsuID)
	}
	return entry, nil
}

func (k *kitsuResolver) loadMapping(ctx context.Context) (map[string]kitsuMapping, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.mapping != nil {
		return k.mapping, nil
	}

	var mapping map[string]kitsuMapping
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.mappingURL, nil)
			if err != nil {
				return err
			}
			resp, err := k.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("kitsu mapping fetch returned status %d", resp.StatusCode)
			}
			return json.NewDecoder(resp.Body).Decode(&mapping)
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load kitsu mapping: %w", err)
	}

	k.logger.Infof("loaded kitsu mapping with %d entries", len(mapping))
	k.mapping = mapping
	return k.mapping, nil
}
