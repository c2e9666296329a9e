package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyValidationDimension indicates a non-positive area or item side.
	ErrKeyValidationDimension = "error.validation.dimension"
	// ErrKeyInfeasibleItem indicates an item that fits in no orientation.
	ErrKeyInfeasibleItem = "error.infeasible_item"
	// ErrKeySearchLimit indicates a request above the configured limits.
	ErrKeySearchLimit = "error.search_limit"
	// ErrKeyLayoutNotFound indicates an unknown run id.
	ErrKeyLayoutNotFound = "error.layout_not_found"
	// ErrKeyImportFailed indicates rejected rows in an uploaded file.
	ErrKeyImportFailed = "error.import_failed"
	// ErrKeyUnsupportedFormat indicates an upload with an unknown extension.
	ErrKeyUnsupportedFormat = "error.unsupported_format"
	// ErrKeyUnsupportedRenderFormat indicates an unknown render format.
	ErrKeyUnsupportedRenderFormat = "error.unsupported_render_format"
	// ErrKeyPayloadTooLarge indicates an upload above the size limit.
	ErrKeyPayloadTooLarge = "error.payload_too_large"
	// ErrKeyStorageUnavailable indicates that layout persistence is disabled.
	ErrKeyStorageUnavailable = "error.storage_unavailable"
	// ErrKeyHistoryUnavailable indicates that audit logging is disabled.
	ErrKeyHistoryUnavailable = "error.history_unavailable"
	// ErrKeyIdempotencyKeyReused indicates a replayed key with another payload.
	ErrKeyIdempotencyKeyReused = "error.idempotency_key_reused"
)

