package apierror

// Error type URIs following the urn:patternlog:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:patternlog:error:validation"

	// TypeNotFound indicates the requested record was not found (404)
	TypeNotFound = "urn:patternlog:error:not_found"

	// TypeConflict indicates a resource conflict (409)
	TypeConflict = "urn:patternlog:error:conflict"

	// TypeSuperseded indicates a newer request of the same kind replaced this one (409)
	TypeSuperseded = "urn:patternlog:error:superseded"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:patternlog:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:patternlog:error:internal"

	// TypeRepositoryUnavailable indicates the datastore could not be read (503)
	TypeRepositoryUnavailable = "urn:patternlog:error:repository_unavailable"

	// TypeInvalidUUID indicates an invalid UUID format in request (400)
	TypeInvalidUUID = "urn:patternlog:error:invalid_uuid"

	// TypeInvalidWindow indicates a window whose end precedes its start (400)
	TypeInvalidWindow = "urn:patternlog:error:invalid_window"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:patternlog:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation            = "Validation Error"
	TitleNotFound              = "Resource Not Found"
	TitleConflict              = "Resource Conflict"
	TitleSuperseded            = "Request Superseded"
	TitleRateLimit             = "Rate Limit Exceeded"
	TitleInternal              = "Internal Server Error"
	TitleRepositoryUnavailable = "Repository Unavailable"
	TitleInvalidUUID           = "Invalid UUID Format"
	TitleInvalidWindow         = "Invalid Window"
	TitleBadRequest            = "Bad Request"
)
