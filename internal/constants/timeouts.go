// Package constants defines timeout values and cache expirations used
// throughout the application.
package constants

import "time"

// Timeouts for the stages of a stream request.
const (
	// Budget for the entire stream request
	RequestTimeout = 30 * time.Second

	// Budget for the provider fan-out stage
	SearchTimeout = 15 * time.Second

	// Per-call timeout for provider scrapes
	ProviderTimeout = 8 * time.Second

	// Per-call timeout for Real-Debrid API calls
	DebridTimeout = 20 * time.Second

	// Minimum spacing between successive Real-Debrid calls
	DebridCallInterval = 600 * time.Millisecond

	// Extra delay injected after a rate-limit signal
	DebridRateLimitCooldown = 2 * time.Second
)

// Cache expirations per entry class.
const (
	StreamCacheTTL   = 30 * time.Minute
	CatalogCacheTTL  = 12 * time.Hour
	MetadataCacheTTL = 24 * time.Hour

	// Known-empty results are cached briefly so repeated requests do not
	// hammer the providers.
	EmptyResultCacheTTL = 5 * time.Minute
)

// Cleanup of magnets submitted to the debrid account.
const (
	CleanupInterval  = 6 * time.Hour
	MagnetRetention  = 24 * time.Hour
)
