package pipeline

import (
	"context"

	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/internal/providers"
	"github.com/stremita/stremita/pkg/logger"
)

// Pipeline wires the resolution stages together. The dispatcher and its
// worker pool are shared across requests; the resolver is built per request
// because the debrid credentials are per user.
type Pipeline struct {
	dispatcher *Dispatcher
	recorder   MagnetRecorder
	budget     int
	logger     logger.Logger
}

func New(provs []providers.Provider, recorder MagnetRecorder, budget int) *Pipeline {
	return &Pipeline{
		dispatcher: NewDispatcher(provs),
		recorder:   recorder,
		budget:     budget,
		logger:     logger.NewScoped("Pipeline"),
	}
}

// Run executes the full flow for one resolved request: plan queries, fan
// out to providers, normalize and deduplicate, filter and rank, then
// resolve against the debrid cache.
func (p *Pipeline) Run(ctx context.Context, meta *models.Metadata, filters models.UserFilters, client DebridClient) ([]models.Stream, error) {
	queries := PlanQueries(meta)
	p.logger.Debugf("planned %d queries for %q", len(queries), meta.Title)

	outcomes := p.dispatcher.Search(ctx, queries, meta, filters)
	raw := Flatten(outcomes)
	if len(raw) == 0 {
		return nil, nil
	}

	candidates := NormalizeCandidates(raw)
	candidates = FilterCandidates(candidates, meta, filters)
	candidates = Rank(candidates)
	p.logger.Infof("%d raw results reduced to %d ranked candidates for %q", len(raw), len(candidates), meta.Title)

	resolver := NewResolver(client, p.recorder, p.budget)
	return resolver.Resolve(ctx, candidates, meta)
}
