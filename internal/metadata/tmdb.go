// Package metadata resolves incoming stream identifiers to request
// metadata via TMDB. Identifiers arrive as plain IMDB ids, tmdb-prefixed
// ids, or kitsu-prefixed anime ids that need one extra translation hop to
// the IMDB id space.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stremita/stremita/internal/cache"
	"github.com/stremita/stremita/internal/constants"
	streamerrors "github.com/stremita/stremita/internal/errors"
	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/pkg/httputil"
	"github.com/stremita/stremita/pkg/logger"
	"github.com/stremita/stremita/pkg/ratelimiter"
)

const (
	tmdbAPIBase  = "https://api.themoviedb.org/3"
	tmdbLanguage = "it-IT"
)

// Service resolves media identifiers to request metadata. Results are
// cached with a long TTL; titles do not change.
type Service struct {
	tmdbBaseURL string
	httpClient  *http.Client
	cache       cache.Cache
	kitsu       *kitsuResolver
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

func NewService(c cache.Cache) *Service {
	return &Service{
		tmdbBaseURL: tmdbAPIBase,
		httpClient:  httputil.NewHTTPClient(constants.SearchTimeout),
		cache:       c,
		kitsu:       newKitsuResolver(),
		rateLimiter: ratelimiter.NewTokenBucket(constants.TMDBRateBurst, constants.TMDBRateRefill),
		logger:      logger.NewScoped("Metadata"),
	}
}

type tmdbDetails struct {
	Title         string `json:"title"`
	Name          string `json:"name"`
	OriginalTitle string `json:"original_title"`
	OriginalName  string `json:"original_name"`
	ReleaseDate   string `json:"release_date"`
	FirstAirDate  string `json:"first_air_date"`
}

type tmdbFindResponse struct {
	MovieResults []tmdbDetails `json:"movie_results"`
	TVResults    []tmdbDetails `json:"tv_results"`
}

// Resolve translates a stream identifier into request metadata, or returns
// a METADATA_UNRESOLVED error when the identifier leads nowhere.
func (s *Service) Resolve(ctx context.Context, id, mediaType, apiKey string) (*models.Metadata, error) {
	cacheKey := fmt.Sprintf("metadata:%s:%s", mediaType, id)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if meta, ok := cached.(*models.Metadata); ok {
				return meta, nil
			}
		}
	}

	meta, err := s.resolve(ctx, id, mediaType, apiKey)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, meta, constants.MetadataCacheTTL)
	}
	return meta, nil
}

func (s *Service) resolve(ctx context.Context, id, mediaType, apiKey string) (*models.Metadata, error) {
	lookupID := id
	season, episode := 0, 0
	isAnime := false

	if kitsuID, kitsuEpisode, ok := parseKitsuID(id); ok {
		mapping, err := s.kitsu.resolve(ctx, kitsuID)
		if err != nil {
			return nil, streamerrors.NewMetadataError(id, err)
		}
		lookupID = mapping.IMDBID
		isAnime = true
		episode = kitsuEpisode
		if mapping.FromSeason > 0 {
			season = mapping.FromSeason
			mediaType = constants.MediaTypeSeries
		}
	} else if mediaType == constants.MediaTypeSeries {
		// Series ids carry season and episode: tt1234567:1:5.
		parts := strings.Split(id, ":")
		if strings.HasPrefix(id, constants.IDPrefixTMDB) {
			// tmdb:123:1:5
			if len(parts) >= 4 {
				lookupID = parts[0] + ":" + parts[1]
				season, _ = strconv.Atoi(parts[2])
				episode, _ = strconv.Atoi(parts[3])
			}
		} else if len(parts) >= 3 {
			lookupID = parts[0]
			season, _ = strconv.Atoi(parts[1])
			episode, _ = strconv.Atoi(parts[2])
		}
	}

	details, err := s.fetchDetails(ctx, lookupID, mediaType, apiKey)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, streamerrors.NewMetadataError(id, nil)
	}

	meta := &models.Metadata{
		Title:         firstNonEmpty(details.Title, details.Name),
		OriginalTitle: firstNonEmpty(details.OriginalTitle, details.OriginalName),
		Year:          parseYear(firstNonEmpty(details.ReleaseDate, details.FirstAirDate)),
		IsSeries:      mediaType == constants.MediaTypeSeries || season > 0,
		IsAnime:       isAnime,
		Season:        season,
		Episode:       episode,
	}
	if meta.Title == "" {
		return nil, streamerrors.NewMetadataError(id, nil)
	}

	s.logger.Debugf("resolved %s to %q (season %d episode %d)", id, meta.Title, season, episode)
	return meta, nil
}

func (s *Service) fetchDetails(ctx context.Context, id, mediaType, apiKey string) (*tmdbDetails, error) {
	switch {
	case strings.HasPrefix(id, constants.IDPrefixIMDB):
		return s.findByIMDB(ctx, id, mediaType, apiKey)
	case strings.HasPrefix(id, constants.IDPrefixTMDB):
		return s.fetchByTMDB(ctx, strings.TrimPrefix(id, constants.IDPrefixTMDB+":"), mediaType, apiKey)
	default:
		return nil, streamerrors.NewInvalidIDError(id)
	}
}

func (s *Service) findByIMDB(ctx context.Context, imdbID, mediaType, apiKey string) (*tmdbDetails, error) {
	endpoint := fmt.Sprintf("%s/find/%s?api_key=%s&language=%s&external_source=imdb_id",
		s.tmdbBaseURL, url.PathEscape(imdbID), url.QueryEscape(apiKey), tmdbLanguage)

	var found tmdbFindResponse
	if err := s.getJSON(ctx, endpoint, &found); err != nil {
		return nil, err
	}

	if mediaType == constants.MediaTypeMovie || len(found.TVResults) == 0 {
		if len(found.MovieResults) > 0 {
			return &found.MovieResults[0], nil
		}
		return nil, nil
	}
	return &found.TVResults[0], nil
}

func (s *Service) fetchByTMDB(ctx context.Context, tmdbID, mediaType, apiKey string) (*tmdbDetails, error) {
	kind := "tv"
	if mediaType == constants.MediaTypeMovie {
		kind = "movie"
	}
	endpoint := fmt.Sprintf("%s/%s/%s?api_key=%s&language=%s",
		s.tmdbBaseURL, kind, url.PathEscape(tmdbID), url.QueryEscape(apiKey), tmdbLanguage)

	var details tmdbDetails
	if err := s.getJSON(ctx, endpoint, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (s *Service) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if s.rateLimiter != nil && !s.rateLimiter.TakeToken() {
		s.rateLimiter.Wait()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// parseKitsuID splits a kitsu:ID:EPISODE identifier.
func parseKitsuID(id string) (kitsuID string, episode int, ok bool) {
	if !strings.HasPrefix(id, constants.IDPrefixKitsu+":") {
		return "", 0, false
	}
	parts := strings.Split(id, ":")
	if len(parts) < 2 || parts[1] == "" {
		return "", 0, false
	}
	episode = 1
	if len(parts) >= 3 {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			episode = n
		}
	}
	return parts[1], episode, true
}

func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(date[:4])
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
