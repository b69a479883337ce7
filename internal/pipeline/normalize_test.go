package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremita/stremita/internal/models"
)

const (
	hashA = "0123456789abcdef0123456789abcdef01234567"
	hashB = "89abcdef0123456789abcdef0123456789abcdef"
)

func magnetFor(hash string) string {
	return "magnet:?xt=urn:btih:" + hash + "&dn=test"
}

func TestNormalizeCandidatesDeduplicates(t *testing.T) {
	raw := []models.RawCandidate{
		{Title: "Show.S01.ITA", MagnetURI: magnetFor(hashA), SizeBytes: 100, Source: "CorsaroNero"},
		{Title: "Show S01 ITA [dup]", MagnetURI: magnetFor(strings.ToUpper(hashA)), SizeBytes: 200, Source: "Knaben"},
		{Title: "Show.S01.1080p", MagnetURI: magnetFor(hashB), SizeBytes: 300, Source: "Knaben"},
	}

	candidates := NormalizeCandidates(raw)
	require.Len(t, candidates, 2)

	// First-seen metadata wins; sources merge.
	assert.Equal(t, strings.ToUpper(hashA), candidates[0].InfoHash)
	assert.Equal(t, "Show.S01.ITA", candidates[0].Title)
	assert.Equal(t, int64(100), candidates[0].SizeBytes)
	assert.Equal(t, []string{"CorsaroNero", "Knaben"}, candidates[0].Sources)

	assert.Equal(t, strings.ToUpper(hashB), candidates[1].InfoHash)
	assert.Equal(t, []string{"Knaben"}, candidates[1].Sources)
}

func TestNormalizeCandidatesDropsUnparseable(t *testing.T) {
	raw := []models.RawCandidate{
		{Title: "Broken", MagnetURI: "magnet:?dn=nohash", Source: "Knaben"},
		{Title: "Empty", MagnetURI: "", Source: "Knaben"},
		{Title: "Good", MagnetURI: magnetFor(hashA), Source: "Knaben"},
	}

	candidates := NormalizeCandidates(raw)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Good", candidates[0].Title)
}

func TestNormalizeCandidatesMergesSameSourceOnce(t *testing.T) {
	raw := []models.RawCandidate{
		{Title: "Show", MagnetURI: magnetFor(hashA), Source: "Knaben"},
		{Title: "Show again", MagnetURI: magnetFor(hashA), Source: "Knaben"},
	}

	candidates := NormalizeCandidates(raw)
	require.Len(t, candidates, 1)
	assert.Equal(t, []string{"Knaben"}, candidates[0].Sources)
}

func TestEnrichTrackersIdempotent(t *testing.T) {
	enriched := EnrichTrackers(magnetFor(hashA))
	assert.Contains(t, enriched, "tracker.opentrackr.org")

	twice := EnrichTrackers(enriched)
	assert.Equal(t, 1, strings.Count(twice, "tracker.opentrackr.org"))
	assert.Equal(t, twice, EnrichTrackers(twice))
}
