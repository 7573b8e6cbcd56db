package apierror

// Error type URIs following the urn:ritual:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:ritual:error:validation"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:ritual:error:bad_request"

	// TypeUnauthorized indicates missing or invalid identity (401)
	TypeUnauthorized = "urn:ritual:error:unauthorized"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:ritual:error:not_found"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:ritual:error:internal"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleBadRequest   = "Bad Request"
	TitleUnauthorized = "Unauthorized"
	TitleNotFound     = "Resource Not Found"
	TitleInternal     = "Internal Server Error"
)
