package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stremita/stremita/internal/constants"
	streamerrors "github.com/stremita/stremita/internal/errors"
	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/internal/realdebrid"
)

func (h *Handler) handleStream(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout)
	defer cancel()

	userConf := c.Param("userConf")
	mediaType := c.Param("type")
	id := c.Param("id")

	cacheKey := fmt.Sprintf("stream:%s:%s:%s", userConf, mediaType, id)
	if cached, ok := h.services.Cache.Get(cacheKey); ok {
		if resp, ok := cached.(models.StreamResponse); ok {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	user := h.config.DecodeUserConfig(userConf)
	if user.TMDBAPIKey == "" || user.DebridAPIKey == "" {
		c.JSON(http.StatusOK, errorResponse("Configurazione incompleta", "Servono le chiavi TMDB e Real-Debrid. Apri /configure."))
		return
	}

	meta, err := h.services.Metadata.Resolve(ctx, id, mediaType, user.TMDBAPIKey)
	if err != nil {
		h.logger.Errorf("metadata resolution failed for %s: %v", id, err)
		c.JSON(http.StatusOK, errorResponse("Titolo non trovato", fmt.Sprintf("Impossibile risolvere %s", id)))
		return
	}

	h.logger.Infof("processing %s request for %q (%s)", mediaType, meta.Title, id)

	client := realdebrid.NewClient(user.DebridAPIKey)
	streams, err := h.services.Pipeline.Run(ctx, meta, user.Filters, client)
	if err != nil {
		var streamErr *streamerrors.StreamError
		if errors.As(err, &streamErr) && streamErr.Type == streamerrors.ErrorTypeDebridAuth {
			c.JSON(http.StatusOK, errorResponse("Chiave Real-Debrid rifiutata", "Controlla la chiave API su real-debrid.com/apitoken"))
			return
		}
		h.logger.Errorf("pipeline failed for %q: %v", meta.Title, err)
		c.JSON(http.StatusOK, errorResponse("Errore di ricerca", "Riprova tra qualche minuto"))
		return
	}

	if len(streams) == 0 {
		resp := models.StreamResponse{Streams: []models.Stream{}}
		h.services.Cache.Set(cacheKey, resp, constants.EmptyResultCacheTTL)
		c.JSON(http.StatusOK, resp)
		return
	}

	resp := models.StreamResponse{Streams: streams}
	h.services.Cache.Set(cacheKey, resp, constants.StreamCacheTTL)
	c.JSON(http.StatusOK, resp)
}

// errorResponse wraps a human readable explanation in a fake stream so the
// Stremio UI shows it. Error payloads with non-200 statuses are silently
// swallowed by the client.
func errorResponse(name, detail string) models.StreamResponse {
	return models.StreamResponse{
		Streams: []models.Stream{
			{Name: constants.AddonName, Title: name + "\n" + detail},
		},
	}
}
