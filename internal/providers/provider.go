// Package providers implements the torrent index adapters queried during a
// stream search. Local providers index Italian-language releases; global
// providers index everything and are filtered for Italian-friendly results.
package providers

import (
	"context"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/stremita/stremita/internal/models"
)

// Provider is the contract every index adapter implements. Search never
// panics; adapters translate internal failures into an error return and the
// dispatcher treats errors as empty results.
type Provider interface {
	Name() string
	// Local reports whether the index is dedicated to Italian content.
	Local() bool
	Search(ctx context.Context, query string, year int) ([]models.RawCandidate, error)
}

var italianTokenRegex = regexp.MustCompile(`(?i)\b(?:ITA|ITALIAN|ITALIANO|MULTI|DUAL|MD|SUB[\s._-]?ITA)\b`)

// isItalianFriendly reports whether a release name from a global index is
// worth keeping for an Italian-first addon.
func isItalianFriendly(name string) bool {
	return italianTokenRegex.MatchString(name)
}

var adultKeywords = []string{"xxx", "porn", "hardcore", "erotic", "hentai", "sex", "adult"}

func isAdultContent(category, title string) bool {
	category = strings.ToLower(strings.Map(dropSeparators, category))
	title = strings.ToLower(title)
	for _, keyword := range adultKeywords {
		if strings.Contains(category, keyword) || strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func dropSeparators(r rune) rune {
	switch r {
	case ' ', '/', '.', '-':
		return -1
	}
	return r
}

// parseSizeText converts a human-readable size cell ("1.4 GiB", "700 MB")
// to bytes. Returns 0 when the text is not parseable.
func parseSizeText(text string) int64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	size, err := humanize.ParseBytes(text)
	if err != nil {
		return 0
	}
	return int64(size)
}

// cleanQuery strips characters most index search engines choke on.
var queryCleaner = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)

func cleanQuery(query string) string {
	flat := queryCleaner.ReplaceAllString(query, " ")
	return strings.Join(strings.Fields(flat), " ")
}
