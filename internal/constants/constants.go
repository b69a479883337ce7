// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "stremita.stremio.addon"
	AddonVersion     = "1.0.0"
	AddonName        = "Stremita"
	AddonDescription = "Italian-first torrent addon with CorsaroNero, UIndex, Knaben, 1337x and Real-Debrid cache resolution"

	// Default configuration values
	DefaultPort     = "7000"
	DefaultLogLevel = "info"

	// Cache settings
	DefaultCacheSize = 1000
)

// Media types accepted on the stream endpoint.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
	MediaTypeAnime  = "anime"
)

// Identifier namespaces accepted on the stream endpoint.
const (
	IDPrefixIMDB  = "tt"
	IDPrefixTMDB  = "tmdb"
	IDPrefixKitsu = "kitsu"
)

// IDPrefixes lists the identifier namespaces the addon resolves.
var IDPrefixes = []string{IDPrefixIMDB, IDPrefixTMDB, IDPrefixKitsu}
