// Package constants defines numerical limits and conversion factors.
package constants

// Limits and counts for various operations
const (
	// Maximum concurrent (query, provider) search tasks
	SearchPoolSize = 20

	// TMDB token bucket: burst capacity and refill per second
	TMDBRateBurst  = 20
	TMDBRateRefill = 5

	// Ranked candidates handed to the debrid resolver
	DefaultCandidateBudget = 12
	MaxCandidateBudget     = 50

	// Minimum size of a file worth selecting inside a torrent
	MinSelectableFileBytes = 50 * 1024 * 1024

	// Confirmed-size floors for the final stream filter
	MinSeriesStreamBytes = 50 * 1024 * 1024
	MinMovieStreamBytes  = 200 * 1024 * 1024

	// Conversion factors
	BytesToGB = 1024 * 1024 * 1024
)
