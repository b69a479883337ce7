// Package pipeline implements the stream resolution flow: query planning,
// provider fan-out, candidate normalization, matching, ranking and debrid
// cache resolution.
package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stremita/stremita/internal/models"
)

// Queries shorter than this skip the bare ITA variant; generic short
// strings plus "ITA" produce too many false positives.
const minTitleLenForItaVariant = 4

var (
	trailingYearRegex = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)
	nonAlnumRegex     = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
)

// sanitizeQuery strips a parenthesized year suffix and collapses every
// non-alphanumeric run to a single space.
func sanitizeQuery(query string) string {
	query = trailingYearRegex.ReplaceAllString(query, "")
	query = nonAlnumRegex.ReplaceAllString(query, " ")
	return strings.Join(strings.Fields(query), " ")
}

// PlanQueries derives the ordered, de-duplicated search query set for a
// resolved request. Series get season-numbered variants in both scene and
// Italian spelling; anime additionally get absolute-episode variants since
// anime indexers frequently ignore seasons; movies get title+year variants.
func PlanQueries(meta *models.Metadata) []string {
	title := sanitizeQuery(meta.Title)
	original := sanitizeQuery(meta.OriginalTitle)
	if original == title {
		original = ""
	}

	var queries []string
	if meta.IsSeries {
		queries = append(queries,
			fmt.Sprintf("%s S%02d", title, meta.Season),
			fmt.Sprintf("%s Stagione %d", title, meta.Season),
		)
		if len(title) >= minTitleLenForItaVariant {
			queries = append(queries, title+" ITA")
		}
		if original != "" {
			queries = append(queries,
				fmt.Sprintf("%s S%02d", original, meta.Season),
				fmt.Sprintf("%s Season %d", original, meta.Season),
			)
		}
		if meta.IsAnime && meta.Episode > 0 {
			queries = append(queries, fmt.Sprintf("%s %d", title, meta.Episode))
			if original != "" {
				queries = append(queries, fmt.Sprintf("%s %d", original, meta.Episode))
			}
		}
	} else {
		queries = append(queries, fmt.Sprintf("%s %d", title, meta.Year))
		if len(title) >= minTitleLenForItaVariant {
			queries = append(queries, title+" ITA")
		}
		if original != "" {
			queries = append(queries, fmt.Sprintf("%s %d", original, meta.Year))
		}
	}

	return dedupeQueries(queries)
}

func dedupeQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	unique := queries[:0]
	for _, query := range queries {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if _, ok := seen[query]; ok {
			continue
		}
		seen[query] = struct{}{}
		unique = append(unique, query)
	}
	return unique
}
