package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the per-request timeout against the formulas API.
	DefaultHTTPTimeout = 5 * time.Second

	// MinHTTPTimeout is the smallest accepted per-request timeout.
	MinHTTPTimeout = time.Millisecond

	// DefaultRetryWaitMin is the minimum wait between retries when retries are enabled.
	DefaultRetryWaitMin = 500 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is zero: a failed request is reported, not repeated.
	DefaultRetryMax = 0

	// DefaultConcurrencyLimit bounds in-flight template checks, fetches and deletes.
	DefaultConcurrencyLimit = 10

	// PoolExpiryDuration purges idle delete workers.
	PoolExpiryDuration = 10 * time.Second

	// PoolReleaseTimeout bounds how long a pool waits for running deletes on release.
	PoolReleaseTimeout = 30 * time.Second
)

// Formulas API paths and headers.
const (
	// FormulasPath is the base path of the formula templates resource.
	FormulasPath = "/elements/api-v2/formulas"

	// NextPageTokenHeader carries the continuation cursor of a paginated list.
	NextPageTokenHeader = "elements-next-page-token"

	// NextPageQueryParam is the query parameter the cursor is sent back in.
	NextPageQueryParam = "nextPage"

	// UserAgent identifies this tool to the API.
	UserAgent = "formula-cleaner"
)

// API hosts, one per environment.
const (
	StagingHost = "staging.cloud-elements.com"
	USProdHost  = "api.cloud-elements.com"
	EUProdHost  = "api.cloud-elements.co.uk"
)

// Audit defaults.
const (
	// DefaultAuditSubject is the NATS subject deletion events are published on.
	DefaultAuditSubject = "formula-cleaner.deletions"

	// AuditSummarySuffix is appended to the subject for the run summary event.
	AuditSummarySuffix = ".summary"

	// AuditFlushTimeout bounds the final flush of buffered audit events.
	AuditFlushTimeout = 5 * time.Second
)

// Format constants.
const (
	// FormatText renders only the console lines.
	FormatText = "text"

	// FormatTable adds a summary table.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Log format constants.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// MaskedSecret is used to hide sensitive information.
const MaskedSecret = "***"
