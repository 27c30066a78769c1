// Package constants provides shared constants used throughout the axioparse codebase.
// This includes timeouts, retry and rate-limit defaults, and file permissions
// that should be consistent across the application.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the reference service
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for a whole harness command
	CommandTimeout = 2 * time.Hour

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Retry constants
const (
	// FetchRetries is the number of attempts made for a single record fetch
	FetchRetries = 3

	// FetchBackoff is the base of the linear backoff between fetch attempts
	FetchBackoff = 100 * time.Millisecond
)

// Rate limiting constants
const (
	// CallInterval is the spacing between reference service calls when an API key is configured.
	// NCBI allows 10 requests per second with a key.
	CallInterval = 100 * time.Millisecond

	// AnonymousCallInterval is the spacing without an API key (3 requests per second).
	AnonymousCallInterval = 334 * time.Millisecond
)

// Resolution constants
const (
	// MaxCandidates is the largest primary candidate list that is trusted without fallback
	MaxCandidates = 5

	// DefaultWorkers is the number of labels resolved at once
	DefaultWorkers = 1
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Reference service constants
const (
	// NCBIBaseURL is the E-utilities endpoint root
	NCBIBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// NCBIDatabase is the Entrez database queried for lineages
	NCBIDatabase = "taxonomy"

	// DefaultTool identifies this program to E-utilities
	DefaultTool = "axioparse"
)
