package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound   = errors.New("document not found")
	ErrDocumentNotFailed  = errors.New("document is not in a retryable state")
	ErrIngestionInFlight  = errors.New("ingestion already in progress")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrEmbeddingDimension = errors.New("embedding dimensionality mismatch")

	// Chat errors
	ErrMessageEmpty    = errors.New("message must not be empty")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrHistoryTooLong  = errors.New("conversation history exceeds maximum turn count")
	ErrOutOfScope      = errors.New("query outside the assistant's declared scope")
	ErrStreamingGone   = errors.New("client went away mid-stream")
	ErrQuorumNotMet    = errors.New("not enough independent web sources")
	ErrProviderQuota   = errors.New("upstream provider quota exhausted")
	ErrProviderPayment = errors.New("upstream provider billing failure")

	// Auth / limiting errors
	ErrMissingAdminKey = errors.New("admin key header is missing")
	ErrInvalidAdminKey = errors.New("admin key is invalid")
	ErrRateLimited     = errors.New("rate limit exceeded")

	// Analytics errors
	ErrAnalyticsNotFound = errors.New("analytics record not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorCode is the stable machine-readable code attached to every error
// response body.
type ErrorCode string

const (
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeConfigError     ErrorCode = "CONFIG_ERROR"
	CodeInvalidKey      ErrorCode = "INVALID_KEY"
	CodeMissingKey      ErrorCode = "MISSING_KEY"
	CodeUpstreamQuota   ErrorCode = "UPSTREAM_QUOTA"
	CodeUpstreamPayment ErrorCode = "UPSTREAM_PAYMENT"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)
