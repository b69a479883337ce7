package pipeline

import (
	"sort"

	"github.com/cehbz/torrentname"

	"github.com/stremita/stremita/internal/matcher"
	"github.com/stremita/stremita/internal/models"
)

// FilterCandidates keeps the candidates applicable to the request. Series
// go through the episode matcher; user filters then drop 4K and theater
// recordings when requested.
func FilterCandidates(candidates []models.Candidate, meta *models.Metadata, filters models.UserFilters) []models.Candidate {
	kept := candidates[:0]
	for _, candidate := range candidates {
		if meta.IsSeries && !matcher.Matches(candidate.Title, meta.Season, meta.Episode, meta.IsAnime) {
			continue
		}
		if filters.No4K && matcher.ExtractInfo(candidate.Title).Quality == matcher.Quality4K {
			continue
		}
		if filters.NoCam && matcher.IsCam(candidate.Title) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// Rank orders candidates for resolution: Italian releases first, then by
// descending size hint, then by release-name parse confidence. The sort is
// stable so equal candidates keep their discovery order.
func Rank(candidates []models.Candidate) []models.Candidate {
	type scored struct {
		italian    bool
		confidence float64
	}
	scores := make([]scored, len(candidates))
	for i, candidate := range candidates {
		scores[i].italian = matcher.ExtractInfo(candidate.Title).HasItalian()
		if parsed := torrentname.Parse(candidate.Title); parsed != nil {
			scores[i].confidence = float64(parsed.Confidence)
		}
	}

	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		i, j := indices[a], indices[b]
		if scores[i].italian != scores[j].italian {
			return scores[i].italian
		}
		if candidates[i].SizeBytes != candidates[j].SizeBytes {
			return candidates[i].SizeBytes > candidates[j].SizeBytes
		}
		return scores[i].confidence > scores[j].confidence
	})

	ranked := make([]models.Candidate, len(candidates))
	for pos, idx := range indices {
		ranked[pos] = candidates[idx]
	}
	return ranked
}
