package pipeline

import (
	"context"

	"github.com/alitto/pond/v2"

	"github.com/stremita/stremita/internal/constants"
	"github.com/stremita/stremita/internal/models"
	"github.com/stremita/stremita/internal/providers"
	"github.com/stremita/stremita/pkg/logger"
)

// SearchOutcome is the settled result of one (query, provider) task. Errors
// are kept for logging but never propagate into the matching pipeline.
type SearchOutcome struct {
	Provider   string
	Query      string
	Candidates []models.RawCandidate
	Err        error
}

// Dispatcher fans search queries out to every configured provider in
// parallel and collects all outcomes. Index sites tolerate low-volume
// parallel reads, so the only bound is the pool size.
type Dispatcher struct {
	providers []providers.Provider
	pool      pond.Pool
	logger    logger.Logger
}

func NewDispatcher(provs []providers.Provider) *Dispatcher {
	return &Dispatcher{
		providers: provs,
		pool:      pond.NewPool(constants.SearchPoolSize),
		logger:    logger.NewScoped("Dispatcher"),
	}
}

// Search issues one task per (query, provider) pair and waits for all of
// them to settle. When the only-Italian filter is active, global providers
// are skipped except for a single forced "{title} ITA" query that preserves
// minimal global coverage.
func (d *Dispatcher) Search(ctx context.Context, queries []string, meta *models.Metadata, filters models.UserFilters) []SearchOutcome {
	type task struct {
		provider providers.Provider
		query    string
	}

	var tasks []task
	for _, query := range queries {
		for _, provider := range d.providers {
			if filters.OnlyIta && !provider.Local() {
				continue
			}
			tasks = append(tasks, task{provider: provider, query: query})
		}
	}
	if filters.OnlyIta {
		forced := sanitizeQuery(meta.Title) + " ITA"
		for _, provider := range d.providers {
			if !provider.Local() {
				tasks = append(tasks, task{provider: provider, query: forced})
				break
			}
		}
	}

	// Providers only see a year for movies; series releases rarely carry
	// the air year in their names.
	year := 0
	if !meta.IsSeries {
		year = meta.Year
	}

	outcomes := make([]SearchOutcome, len(tasks))
	group := d.pool.NewGroup()
	for i, t := range tasks {
		i, t := i, t
		group.Submit(func() {
			candidates, err := t.provider.Search(ctx, t.query, year)
			outcomes[i] = SearchOutcome{
				Provider:   t.provider.Name(),
				Query:      t.query,
				Candidates: candidates,
				Err:        err,
			}
		})
	}
	group.Wait()

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			d.logger.Warnf("provider %s failed for query %q: %v", outcome.Provider, outcome.Query, outcome.Err)
		}
	}
	return outcomes
}

// Flatten merges all successful outcomes into a single raw candidate list.
func Flatten(outcomes []SearchOutcome) []models.RawCandidate {
	var all []models.RawCandidate
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			continue
		}
		all = append(all, outcome.Candidates...)
	}
	return all
}
