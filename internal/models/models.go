// Package models defines the data structures flowing through the
// resolution pipeline and the Stremio wire formats.
package models

// Metadata describes the requested media item once its identifier has been
// resolved. Immutable for the lifetime of the request.
type Metadata struct {
	Title         string
	OriginalTitle string
	Year          int
	IsSeries      bool
	IsAnime       bool
	Season        int
	Episode       int
}

// RawCandidate is a single record returned by a provider search, before
// normalization. Size and seeders are best-effort hints.
type RawCandidate struct {
	Title     string
	MagnetURI string
	SizeBytes int64
	Seeders   int
	Source    string
}

// Candidate is a deduplicated torrent candidate keyed by info-hash.
// Sources accumulates every provider that returned this hash.
type Candidate struct {
	InfoHash  string // 40 uppercase hex chars
	Title     string
	MagnetURI string
	SizeBytes int64
	Seeders   int
	Sources   []string
}

// HasSource reports whether the candidate was returned by the named provider.
func (c *Candidate) HasSource(name string) bool {
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// AddSource records an additional provider for the candidate's hash.
func (c *Candidate) AddSource(name string) {
	if !c.HasSource(name) {
		c.Sources = append(c.Sources, name)
	}
}

// UserFilters are the per-user result filters carried in the configuration blob.
type UserFilters struct {
	OnlyIta bool `json:"onlyIta"`
	No4K    bool `json:"no4k"`
	NoCam   bool `json:"noCam"`
}

// UserConfig is the decoded per-request configuration blob.
type UserConfig struct {
	TMDBAPIKey   string      `json:"tmdb"`
	DebridAPIKey string      `json:"rd"`
	Filters      UserFilters `json:"filters"`
}
