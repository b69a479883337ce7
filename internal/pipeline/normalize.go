package pipeline

import (
	"net/url"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/stremita/stremita/internal/models"
)

// fallbackTrackers are appended to every magnet URI to improve download
// reliability when the original announce list is dead.
var fallbackTrackers = []string{
	"udp://tracker.opentrackr.org:1337/announce",
	"udp://open.stealth.si:80/announce",
	"udp://tracker.torrent.eu.org:451/announce",
	"udp://exodus.desync.com:6969/announce",
}

// NormalizeCandidates deduplicates raw candidates by info-hash. Candidates
// without a parseable hash are dropped; when several share a hash the
// first-seen title and size are kept and the sources set grows. Output
// order follows first appearance.
func NormalizeCandidates(raw []models.RawCandidate) []models.Candidate {
	byHash := make(map[string]*models.Candidate, len(raw))
	var order []string

	for _, candidate := range raw {
		magnet, err := metainfo.ParseMagnetUri(candidate.MagnetURI)
		if err != nil {
			continue
		}
		hash := strings.ToUpper(magnet.InfoHash.HexString())

		if existing, ok := byHash[hash]; ok {
			existing.AddSource(candidate.Source)
			continue
		}

		byHash[hash] = &models.Candidate{
			InfoHash:  hash,
			Title:     candidate.Title,
			MagnetURI: EnrichTrackers(candidate.MagnetURI),
			SizeBytes: candidate.SizeBytes,
			Seeders:   candidate.Seeders,
			Sources:   []string{candidate.Source},
		}
		order = append(order, hash)
	}

	candidates := make([]models.Candidate, 0, len(order))
	for _, hash := range order {
		candidates = append(candidates, *byHash[hash])
	}
	return candidates
}

// EnrichTrackers appends the fallback trackers to a magnet URI. Trackers
// already present are not duplicated, so the operation is idempotent even
// if it runs twice on the same URI.
func EnrichTrackers(magnetURI string) string {
	existing := make(map[string]struct{})
	if parsed, err := url.Parse(magnetURI); err == nil {
		for _, tracker := range parsed.Query()["tr"] {
			existing[tracker] = struct{}{}
		}
	}

	var b strings.Builder
	b.WriteString(magnetURI)
	for _, tracker := range fallbackTrackers {
		if _, ok := existing[tracker]; ok {
			continue
		}
		b.WriteString("&tr=")
		b.WriteString(url.QueryEscape(tracker))
	}
	return b.String()
}
